package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/henri123lemoine/quire/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.ConfigPath()
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Created", path)
		return nil
	},
}
