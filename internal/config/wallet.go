package config

import "fmt"

// Connector kinds understood by the dApp front end
const (
	ConnectorInjected       = "injected"
	ConnectorWalletConnect  = "walletConnect"
	ConnectorCoinbaseWallet = "coinbaseWallet"
)

// DefaultWalletConnectProjectID is used when WALLETCONNECT_PROJECT_ID is unset.
// It identifies the shared development project and must not be used in production.
const DefaultWalletConnectProjectID = "explorer-dev-walletconnect"

// WalletConfig is the wallet-connection setup handed to the browser dApp
type WalletConfig struct {
	Chain      ChainInfo         `yaml:"chain" json:"chain"`
	Connectors []ConnectorConfig `yaml:"connectors" json:"connectors"`
	Transports map[uint64]string `yaml:"transports" json:"transports"`
}

// ChainInfo identifies the chain the dApp targets
type ChainInfo struct {
	ID       uint64 `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	RPCURL   string `yaml:"rpc_url" json:"rpcUrl"`
	Currency string `yaml:"currency" json:"currency"`
}

// ConnectorConfig declares one wallet-connection method
type ConnectorConfig struct {
	Kind        string `yaml:"kind" json:"kind"`
	ProjectID   string `yaml:"project_id" json:"projectId,omitempty"`
	ShowQRModal bool   `yaml:"show_qr_modal" json:"showQrModal,omitempty"`
	AppName     string `yaml:"app_name" json:"appName,omitempty"`
}

func defaultWallet() WalletConfig {
	return WalletConfig{
		Chain: ChainInfo{
			ID:       31337,
			Name:     "Localhost",
			RPCURL:   "http://127.0.0.1:8545",
			Currency: "ETH",
		},
		Connectors: []ConnectorConfig{
			{Kind: ConnectorInjected},
			{Kind: ConnectorWalletConnect, ShowQRModal: true},
			{Kind: ConnectorCoinbaseWallet, AppName: "Chain Explorer"},
		},
		Transports: map[uint64]string{
			31337: "http://127.0.0.1:8545",
		},
	}
}

// resolveProjectID fills in the WalletConnect project ID from env or the default literal
func (w *WalletConfig) resolveProjectID(fromEnv string) {
	for i := range w.Connectors {
		if w.Connectors[i].Kind != ConnectorWalletConnect {
			continue
		}
		switch {
		case fromEnv != "":
			w.Connectors[i].ProjectID = fromEnv
		case w.Connectors[i].ProjectID == "":
			w.Connectors[i].ProjectID = DefaultWalletConnectProjectID
		}
	}
}

// Validate checks connector kinds and that the target chain has a transport
func (w *WalletConfig) Validate() error {
	if w.Chain.ID == 0 {
		return fmt.Errorf("chain id is required")
	}
	seen := make(map[string]bool, len(w.Connectors))
	for _, c := range w.Connectors {
		switch c.Kind {
		case ConnectorInjected:
		case ConnectorWalletConnect:
			if c.ProjectID == "" {
				return fmt.Errorf("walletConnect connector requires a project id")
			}
		case ConnectorCoinbaseWallet:
			if c.AppName == "" {
				return fmt.Errorf("coinbaseWallet connector requires an app name")
			}
		default:
			return fmt.Errorf("unknown connector kind %q", c.Kind)
		}
		if seen[c.Kind] {
			return fmt.Errorf("connector %q declared twice", c.Kind)
		}
		seen[c.Kind] = true
	}
	if _, ok := w.Transports[w.Chain.ID]; !ok {
		return fmt.Errorf("no transport for chain %d", w.Chain.ID)
	}
	return nil
}
