package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Data source kinds
const (
	SourceMock  = "mock"
	SourceNode  = "node"
	SourceStore = "store"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Pebble    PebbleConfig    `yaml:"pebble"`
	Explorer  ExplorerConfig  `yaml:"explorer"`
	Node      NodeConfig      `yaml:"node"`
	Sync      SyncConfig      `yaml:"sync"`
	Contracts ContractsConfig `yaml:"contracts"`
	Wallet    WalletConfig    `yaml:"wallet"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig represents the logger configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`   // optional, rotated
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// PebbleConfig represents the Pebble database configuration
type PebbleConfig struct {
	Path        string `yaml:"path"`
	CacheSizeMB int64  `yaml:"cache_size_mb"`
}

// ExplorerConfig selects where dashboard data comes from
type ExplorerConfig struct {
	Source       string        `yaml:"source"`        // mock, node or store
	Record       bool          `yaml:"record"`        // persist fetched data into pebble
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // 0 disables the timeout
}

// NodeConfig represents the EVM JSON-RPC node used by the node source
type NodeConfig struct {
	RPCURL    string  `yaml:"rpc_url"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second
	Burst     int     `yaml:"burst"`
	ScanDepth int     `yaml:"scan_depth"` // blocks walked back when collecting transactions
}

// SyncConfig controls the background copy of an upstream source into pebble
type SyncConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Source   string        `yaml:"source"` // upstream: mock or node
	Interval time.Duration `yaml:"interval"`
	Depth    int           `yaml:"depth"` // blocks and transactions copied per round
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		Pebble: PebbleConfig{
			Path:        "./data/pebble",
			CacheSizeMB: 64,
		},
		Explorer: ExplorerConfig{
			Source: SourceMock,
		},
		Node: NodeConfig{
			RPCURL:    "http://127.0.0.1:8545",
			RateLimit: 20,
			Burst:     10,
			ScanDepth: 50,
		},
		Sync: SyncConfig{
			Source:   SourceNode,
			Interval: 15 * time.Second,
			Depth:    20,
		},
		Contracts: defaultContracts(),
		Wallet:    defaultWallet(),
	}
}

// dropDeclaredMaps clears the default networks and transports when the file
// declares its own, since yaml.v3 merges into existing maps
func (c *Config) dropDeclaredMaps(data []byte) error {
	var declared struct {
		Contracts struct {
			Networks map[string]yaml.Node `yaml:"networks"`
		} `yaml:"contracts"`
		Wallet struct {
			Transports map[string]yaml.Node `yaml:"transports"`
		} `yaml:"wallet"`
	}
	if err := yaml.Unmarshal(data, &declared); err != nil {
		return err
	}
	if declared.Contracts.Networks != nil {
		c.Contracts.Networks = nil
	}
	if declared.Wallet.Transports != nil {
		c.Wallet.Transports = nil
	}
	return nil
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := cfg.dropDeclaredMaps(data); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	if err := cfg.Contracts.resolveAccounts(os.Getenv("ADMIN_PRIVATE_KEY")); err != nil {
		return nil, err
	}
	cfg.Wallet.resolveProjectID(os.Getenv("WALLETCONNECT_PROJECT_ID"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Explorer.Source {
	case SourceMock, SourceNode, SourceStore:
	default:
		return fmt.Errorf("unknown explorer source %q, must be one of %s, %s, %s",
			c.Explorer.Source, SourceMock, SourceNode, SourceStore)
	}
	if c.Explorer.FetchTimeout < 0 {
		return fmt.Errorf("explorer fetch timeout cannot be negative")
	}
	if c.Explorer.Source == SourceNode && c.Node.RPCURL == "" {
		return fmt.Errorf("node rpc_url is required for the %s source", SourceNode)
	}
	if c.Sync.Enabled {
		if c.Sync.Source != SourceMock && c.Sync.Source != SourceNode {
			return fmt.Errorf("sync source must be %s or %s, got %q", SourceMock, SourceNode, c.Sync.Source)
		}
		if c.Sync.Interval <= 0 {
			return fmt.Errorf("sync interval must be positive")
		}
		if c.Sync.Depth <= 0 {
			return fmt.Errorf("sync depth must be positive")
		}
	}
	if err := c.Contracts.Validate(); err != nil {
		return fmt.Errorf("contracts: %w", err)
	}
	if err := c.Wallet.Validate(); err != nil {
		return fmt.Errorf("wallet: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if origins := os.Getenv("SERVER_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	// Log config
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		c.Log.File = file
	}

	// Pebble config
	if path := os.Getenv("PEBBLE_PATH"); path != "" {
		c.Pebble.Path = path
	}

	// Explorer config
	if source := os.Getenv("EXPLORER_SOURCE"); source != "" {
		c.Explorer.Source = source
	}
	if record := os.Getenv("EXPLORER_RECORD"); record != "" {
		c.Explorer.Record = record == "true" || record == "1"
	}
	if timeout := os.Getenv("EXPLORER_FETCH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Explorer.FetchTimeout = d
		}
	}

	// Node config
	if url := os.Getenv("NODE_RPC_URL"); url != "" {
		c.Node.RPCURL = url
	}
	if rateLimit := os.Getenv("NODE_RATE_LIMIT"); rateLimit != "" {
		if r, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			c.Node.RateLimit = r
		}
	}

	// Sync config
	if enabled := os.Getenv("SYNC_ENABLED"); enabled != "" {
		c.Sync.Enabled = enabled == "true" || enabled == "1"
	}
	if source := os.Getenv("SYNC_SOURCE"); source != "" {
		c.Sync.Source = source
	}
	if interval := os.Getenv("SYNC_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			c.Sync.Interval = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
