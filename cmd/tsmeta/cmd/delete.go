package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <tsuid-hex>",
	Short: "Delete a metadata record by TSUID",
	Long: `Delete a stored metadata record by its hex-encoded TSUID.

Example:
  tsmeta delete 0001F502A3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(strings.ToUpper(args[0])); err != nil {
			return err
		}

		cmd.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
