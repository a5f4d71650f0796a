package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/codec"
	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <tsuid-hex>",
	Short: "Store a metadata record",
	Long: `Store a time-series metadata record keyed by its TSUID.

Example:
  tsmeta put 0001F502A3 --metric sys.cpu.user --tag host=web01 --tag dc=east`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, _ := cmd.Flags().GetString("metric")
		tagPairs, _ := cmd.Flags().GetStringArray("tag")

		uid, err := tsuid.Decode(args[0])
		if err != nil {
			return fmt.Errorf("invalid tsuid: %w", err)
		}

		tags := make(map[string]string, len(tagPairs))
		for _, pair := range tagPairs {
			k, v, ok := strings.Cut(pair, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid tag %q: expected key=value", pair)
			}
			tags[k] = v
		}

		meta, err := codec.NewTSMeta(metric, tags, uid)
		if err != nil {
			return err
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Put(meta); err != nil {
			return err
		}

		cmd.Printf("Stored %s\n", meta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().StringP("metric", "m", "", "Metric name (required)")
	putCmd.Flags().StringArrayP("tag", "t", nil, "Tag pair key=value (repeatable, at least one required)")
	putCmd.MarkFlagRequired("metric")
	putCmd.MarkFlagRequired("tag")
}
