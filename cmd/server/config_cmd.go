package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thanhnp/chain-explorer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [wallet|contracts]",
	Short: "Print the resolved client configuration",
	Long: `Print the wallet or contracts configuration as JSON, after the config file
and environment (ADMIN_PRIVATE_KEY, WALLETCONNECT_PROJECT_ID) have been applied.
Private keys are never printed.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"wallet", "contracts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		var section any
		switch args[0] {
		case "wallet":
			section = cfg.Wallet
		case "contracts":
			section = cfg.Contracts
		}

		out, err := json.MarshalIndent(section, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
