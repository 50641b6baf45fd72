package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scentlab/scentmatch/configs"
	"github.com/scentlab/scentmatch/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an annotated scentmatch.yaml template",
	RunE: func(cmd *cobra.Command, args []string) error {
		styles := ui.DefaultStyles()
		path := "scentmatch.yaml"

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		fmt.Println(styles.Success.Render("wrote " + path))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
