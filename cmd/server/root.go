package main

import (
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd serves the API when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Blockchain explorer API server",
	Long: `Explorer serves the dashboard and address detail API for a block explorer
front end, along with the wallet and contract configuration of the dApp.

Examples:
  explorer                          # Serve with ./config.yaml
  explorer serve --config dev.yaml  # Serve with another config file
  explorer config wallet            # Print the resolved wallet config
  explorer config contracts         # Print the resolved contracts config`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
