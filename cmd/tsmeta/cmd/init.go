package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zuodh/OpenTSDBMeta/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default tsmeta configuration file. Refuses to overwrite an
existing file unless --force is given.

Example:
  tsmeta init --config tsmeta.yaml --data-dir /var/lib/tsmeta`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = "tsmeta.yaml"
		}
		force, _ := cmd.Flags().GetBool("force")

		if config.ConfigExists(path) && !force {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}

		cfg := config.DefaultConfig()
		if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
			cfg.DataDir = dataDir
		}

		if err := config.SaveConfig(cfg, path); err != nil {
			return err
		}

		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
