package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/storage"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <tsuid-hex>",
	Short: "Look up a metadata record by TSUID",
	Long: `Look up a stored metadata record by its hex-encoded TSUID.

Example:
  tsmeta get 0001F502A3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		meta, err := store.Get(strings.ToUpper(args[0]))
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no record for tsuid %s", args[0])
		}
		if err != nil {
			return err
		}

		cmd.Println(meta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
