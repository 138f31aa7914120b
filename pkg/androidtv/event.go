package androidtv

import "github.com/louis49/androidtv-remote/internal/remote"

// EventKind names an event delivered on Remote.Events.
type EventKind string

// Event kinds.
const (
	// EventSecret asks the caller for the code the television displays.
	EventSecret     EventKind = "secret"
	EventReady      EventKind = "ready"
	EventPowered    EventKind = "powered"
	EventVolume     EventKind = "volume"
	EventCurrentApp EventKind = "current_app"
	EventError      EventKind = "error"
	// EventUnpaired means the television no longer trusts this client. It
	// is reported once; pairing has to be run again.
	EventUnpaired     EventKind = "unpaired"
	EventConnected    EventKind = "connected"
	EventDisconnected EventKind = "disconnected"
)

// Volume is the television's audio level.
type Volume = remote.Volume

// State is what the television has reported on the current connection.
type State = remote.State

// DeviceError is an error the television reported about a message it
// received.
type DeviceError struct {
	Value bool `json:"value"`
	// Message is the kind of message the television rejected, if it echoed
	// one.
	Message string `json:"message,omitempty"`
}

// Event is one notification from the television or the connection.
type Event struct {
	Kind       EventKind    `json:"kind"`
	Powered    *bool        `json:"powered,omitempty"`
	Volume     *Volume      `json:"volume,omitempty"`
	CurrentApp string       `json:"current_app,omitempty"`
	Error      *DeviceError `json:"error,omitempty"`
	// Cause is set on EventDisconnected.
	Cause string `json:"cause,omitempty"`
}

func fromRemote(e remote.Event) Event {
	switch e.Kind {
	case remote.EventReady:
		return Event{Kind: EventReady}
	case remote.EventPowered:
		powered := e.Powered
		return Event{Kind: EventPowered, Powered: &powered}
	case remote.EventVolume:
		v := e.Volume
		return Event{Kind: EventVolume, Volume: &v}
	case remote.EventCurrentApp:
		return Event{Kind: EventCurrentApp, CurrentApp: e.CurrentApp}
	case remote.EventError:
		de := &DeviceError{}
		if e.Error != nil {
			de.Value = e.Error.Value
			if e.Error.Message != nil {
				de.Message = e.Error.Message.Kind()
			}
		}
		return Event{Kind: EventError, Error: de}
	}
	return Event{Kind: EventKind(e.Kind)}
}
