package config

import (
	"crypto/ecdsa"
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/thanhnp/chain-explorer/pkg/semver"
)

// minSolidity is the oldest compiler the contract toolchain is set up for
var minSolidity = semver.MustParse("0.8.0")

// ContractsConfig describes how contracts are compiled and where they can be deployed
type ContractsConfig struct {
	Solidity       SolidityConfig           `yaml:"solidity" json:"solidity"`
	DefaultNetwork string                   `yaml:"default_network" json:"defaultNetwork"`
	Networks       map[string]NetworkConfig `yaml:"networks" json:"networks"`
	Paths          PathsConfig              `yaml:"paths" json:"paths"`
}

// SolidityConfig holds compiler settings
type SolidityConfig struct {
	Version   string          `yaml:"version" json:"version"`
	Optimizer OptimizerConfig `yaml:"optimizer" json:"optimizer"`
}

// OptimizerConfig holds solc optimizer settings
type OptimizerConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Runs    int  `yaml:"runs" json:"runs"`
}

// NetworkConfig is a deployment target
type NetworkConfig struct {
	URL             string `yaml:"url" json:"url"`
	ChainID         uint64 `yaml:"chain_id" json:"chainId"`
	GasPrice        uint64 `yaml:"gas_price" json:"gasPrice,omitempty"` // in wei, 0 means node estimate
	AccountsFromEnv bool   `yaml:"accounts_from_env" json:"-"`

	// Deployer is the address derived from the admin key, if one is attached.
	Deployer string `yaml:"-" json:"deployer,omitempty"`

	key *ecdsa.PrivateKey
}

// PathsConfig holds filesystem conventions of the contract project
type PathsConfig struct {
	Sources   string `yaml:"sources" json:"sources"`
	Tests     string `yaml:"tests" json:"tests"`
	Cache     string `yaml:"cache" json:"cache"`
	Artifacts string `yaml:"artifacts" json:"artifacts"`
}

func defaultContracts() ContractsConfig {
	return ContractsConfig{
		Solidity: SolidityConfig{
			Version: "0.8.19",
			Optimizer: OptimizerConfig{
				Enabled: true,
				Runs:    200,
			},
		},
		DefaultNetwork: "localhost",
		Networks: map[string]NetworkConfig{
			"localhost": {
				URL:     "http://127.0.0.1:8545",
				ChainID: 31337,
			},
			"testnet": {
				URL:             "https://rpc.sepolia.org",
				ChainID:         11155111,
				GasPrice:        20_000_000_000,
				AccountsFromEnv: true,
			},
		},
		Paths: PathsConfig{
			Sources:   "./contracts",
			Tests:     "./test",
			Cache:     "./cache",
			Artifacts: "./artifacts",
		},
	}
}

// IsLocal reports whether the network runs on this machine
func (n NetworkConfig) IsLocal() bool {
	u, err := url.Parse(n.URL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}

// AccountKey returns the signing key attached to the network, or nil
func (n NetworkConfig) AccountKey() *ecdsa.PrivateKey {
	return n.key
}

// resolveAccounts attaches the admin key to every non-local network that asks for it
func (c *ContractsConfig) resolveAccounts(adminKey string) error {
	adminKey = strings.TrimPrefix(strings.TrimSpace(adminKey), "0x")
	if adminKey == "" {
		return nil
	}

	key, err := crypto.HexToECDSA(adminKey)
	if err != nil {
		return fmt.Errorf("invalid ADMIN_PRIVATE_KEY: %w", err)
	}
	deployer := crypto.PubkeyToAddress(key.PublicKey).Hex()

	for name, network := range c.Networks {
		if !network.AccountsFromEnv || network.IsLocal() {
			continue
		}
		network.key = key
		network.Deployer = deployer
		c.Networks[name] = network
	}
	return nil
}

// Validate checks compiler and network settings
func (c *ContractsConfig) Validate() error {
	version, err := semver.Parse(c.Solidity.Version)
	if err != nil {
		return fmt.Errorf("solidity version: %w", err)
	}
	if !version.AtLeast(minSolidity) {
		return fmt.Errorf("solidity version %s is older than %s", version, minSolidity)
	}
	if c.Solidity.Optimizer.Enabled && c.Solidity.Optimizer.Runs <= 0 {
		return fmt.Errorf("optimizer runs must be positive when the optimizer is enabled")
	}

	for name, network := range c.Networks {
		if network.URL == "" {
			return fmt.Errorf("network %q: url is required", name)
		}
		if _, err := url.ParseRequestURI(network.URL); err != nil {
			return fmt.Errorf("network %q: invalid url: %w", name, err)
		}
		if network.ChainID == 0 {
			return fmt.Errorf("network %q: chain_id is required", name)
		}
	}
	if c.DefaultNetwork != "" {
		if _, ok := c.Networks[c.DefaultNetwork]; !ok {
			return fmt.Errorf("default network %q is not declared", c.DefaultNetwork)
		}
	}
	return nil
}
