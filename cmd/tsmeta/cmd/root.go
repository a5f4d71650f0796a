package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/config"
	"github.com/zuodh/OpenTSDBMeta/pkg/storage"
	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tsmeta",
	Short: "tsmeta - OpenTSDB time-series metadata cache",
	Long: `tsmeta extracts TSUIDs from OpenTSDB composite row keys and maintains
a sorted, disk-backed cache of time-series metadata records keyed by
TSUID hex.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (optional)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the metadata store")
}

// loadConfig resolves the effective configuration: file if given, defaults
// otherwise, with the --data-dir flag taking precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// keyLayout materializes the configured row-key widths.
func keyLayout(cmd *cobra.Command) (tsuid.Layout, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return tsuid.Layout{}, err
	}
	return cfg.Layout()
}

// openStore opens the metadata store configured for this invocation.
func openStore(cmd *cobra.Command) (*storage.MetaStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.Open(cfg.DataDir)
}
