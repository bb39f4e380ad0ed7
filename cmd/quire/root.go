package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/henri123lemoine/quire/internal/config"
	"github.com/henri123lemoine/quire/internal/debug"
	"github.com/henri123lemoine/quire/internal/ui"
)

var (
	cfgFile   string
	debugFile string
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quire",
	Short: "Read and export rich-content JSON documents",
	Long: `quire renders rich-content JSON (paragraphs, headings, lists, tables,
accordions, image galleries and tab sets) in the terminal, or exports it
as a static HTML page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugFile != "" {
			if err := debug.Enable(debugFile); err != nil {
				return fmt.Errorf("enabling debug log: %w", err)
			}
		}
		return initializeConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Close()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/quire/config.toml)")
	rootCmd.PersistentFlags().StringVar(&debugFile, "debug", "", "write a debug log to this file")

	rootCmd.AddCommand(viewCmd, exportCmd, outlineCmd, initConfigCmd)
}

func initializeConfig() error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.LoadFromPath(cfgFile)
	} else {
		appConfig, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	for _, w := range appConfig.Validate() {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}

	ui.UseTheme(appConfig.UI.Theme)
	return nil
}
