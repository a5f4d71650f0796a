package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/codec"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List metadata records in storage order",
	Long: `List stored metadata records in ascending TSUID hex order,
optionally restricted to a hex prefix or an exact metric name.

Examples:
  tsmeta scan
  tsmeta scan --prefix 0001F5 --limit 20
  tsmeta scan --metric sys.cpu.user`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetString("prefix")
		metric, _ := cmd.Flags().GetString("metric")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		var records []*codec.TSMeta
		if metric != "" {
			records, err = store.FindByMetric(metric)
		} else {
			records, err = store.Scan(strings.ToUpper(prefix), limit)
		}
		if err != nil {
			return err
		}

		for _, meta := range records {
			cmd.Println(meta)
		}
		cmd.Printf("%d record(s)\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("prefix", "p", "", "TSUID hex prefix to scan")
	scanCmd.Flags().StringP("metric", "m", "", "Exact metric name to look up")
	scanCmd.Flags().IntP("limit", "n", 100, "Maximum number of records to return")
}
