package remote

import "github.com/louis49/androidtv-remote/internal/wire"

// EventKind names a session event.
type EventKind string

// Events a session reports to its owner.
const (
	EventReady      EventKind = "ready"
	EventPowered    EventKind = "powered"
	EventVolume     EventKind = "volume"
	EventCurrentApp EventKind = "current_app"
	EventError      EventKind = "error"
)

// Volume is the device's reported audio level.
type Volume struct {
	Level   uint32 `json:"level"`
	Maximum uint32 `json:"maximum"`
	Muted   bool   `json:"muted"`
}

// Event is one state change reported by the device. Only the field that
// matches Kind is set.
type Event struct {
	Kind       EventKind
	Powered    bool
	Volume     Volume
	CurrentApp string
	Error      *wire.RemoteError
}

// State is a snapshot of what the device has reported on this connection.
type State struct {
	Ready      bool   `json:"ready"`
	Powered    bool   `json:"powered"`
	Volume     Volume `json:"volume"`
	CurrentApp string `json:"current_app"`
}

// DeviceInfo is what this client reports about itself when the device asks
// it to configure.
type DeviceInfo struct {
	Model       string
	Vendor      string
	PackageName string
	AppVersion  string
}

// Defaults used until the host lookup completes.
const (
	DefaultModel       = "unknown"
	DefaultVendor      = "unknown"
	DefaultPackageName = "androidtv-remote"
	DefaultAppVersion  = "1.0.0"
)

func (d DeviceInfo) withDefaults() DeviceInfo {
	if d.Model == "" {
		d.Model = DefaultModel
	}
	if d.Vendor == "" {
		d.Vendor = DefaultVendor
	}
	if d.PackageName == "" {
		d.PackageName = DefaultPackageName
	}
	if d.AppVersion == "" {
		d.AppVersion = DefaultAppVersion
	}
	return d
}
