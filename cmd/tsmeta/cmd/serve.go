package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/api"
	"github.com/zuodh/OpenTSDBMeta/pkg/logging"
	"github.com/zuodh/OpenTSDBMeta/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the metadata REST API server",
	Long: `Start the tsmeta REST API server. The server exposes metadata
lookup, ingest and scan endpoints plus row-key extraction, with
Prometheus metrics on /metrics.

Examples:
  tsmeta serve --data-dir ./data
  tsmeta serve --config tsmeta.yaml --port 4242 --api-key mysecret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if apiKey, _ := cmd.Flags().GetString("api-key"); cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey = apiKey
		}

		layout, err := cfg.Layout()
		if err != nil {
			return err
		}

		log := logging.New(cfg.Logging.Level, cfg.Logging.Pretty, os.Stderr)

		store, err := storage.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		log.Info().
			Str("data_dir", cfg.DataDir).
			Int("metric_width", cfg.KeyLayout.MetricWidth).
			Int("timestamp_width", cfg.KeyLayout.TimestampWidth).
			Msg("metadata store opened")

		serverConfig := api.ServerConfig{
			Port:   cfg.Port,
			Bind:   cfg.Bind,
			APIKey: cfg.Security.APIKey,
		}
		server := api.NewServer(store, layout, serverConfig, api.NewMetrics(), log)
		return server.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 4242, "Port to listen on")
	serveCmd.Flags().String("api-key", "", "API key protecting the /api/v1 routes (empty disables auth)")
}
