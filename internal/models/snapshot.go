package models

// Snapshot is the payload of the dashboard endpoint
type Snapshot struct {
	Stats        NetworkStats  `json:"stats"`
	Blocks       []Block       `json:"blocks"`
	Transactions []Transaction `json:"transactions"`
	Timestamp    int64         `json:"timestamp"` // unix milliseconds
}
