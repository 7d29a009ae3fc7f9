package model

// ParsedConfig is the structured form of a device's running configuration,
// an arbitrary nested mapping as produced by the gateway's parser. Every
// component outside the gateway treats it as opaque.
type ParsedConfig map[string]any

// Snapshot is one persisted device-configuration capture. Snapshots are
// immutable once written; newer captures supersede older ones by timestamp.
type Snapshot struct {
	Device    string       `json:"device"`
	Timestamp string       `json:"timestamp"`
	Config    ParsedConfig `json:"config"`
}
