package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/chain-explorer/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv("WALLETCONNECT_PROJECT_ID", "cli-test-project")

	out, err := runCLI(t, "config", "wallet", "--config", missing)
	require.NoError(t, err)
	var wallet config.WalletConfig
	require.NoError(t, json.Unmarshal([]byte(out), &wallet))
	assert.Equal(t, "cli-test-project", wallet.Connectors[1].ProjectID)

	out, err = runCLI(t, "config", "contracts", "--config", missing)
	require.NoError(t, err)
	var contracts config.ContractsConfig
	require.NoError(t, json.Unmarshal([]byte(out), &contracts))
	assert.Equal(t, "0.8.19", contracts.Solidity.Version)
	assert.Contains(t, contracts.Networks, "testnet")

	_, err = runCLI(t, "config", "nodes", "--config", missing)
	assert.Error(t, err)
}
