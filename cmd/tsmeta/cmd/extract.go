package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <rowkey-hex>",
	Short: "Extract the TSUID from a composite row key",
	Long: `Extract the TSUID from a hex-encoded composite row key by cutting
out the timestamp bytes between the metric ID and the tag pairs.

Example:
  tsmeta extract 0001F50000006402A3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, err := keyLayout(cmd)
		if err != nil {
			return err
		}

		rowKey, err := tsuid.Decode(args[0])
		if err != nil {
			return fmt.Errorf("invalid row key: %w", err)
		}

		hex, err := layout.ExtractTSUIDHex(rowKey)
		if err != nil {
			return err
		}

		cmd.Println(hex)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
