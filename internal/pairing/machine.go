package pairing

import (
	"fmt"

	"github.com/louis49/androidtv-remote/internal/wire"
)

// State is a pairing handshake state.
type State int

// Handshake states, in order. Each state names what has happened so far; the
// comment gives the message it waits for.
const (
	StateConnecting        State = iota // TLS handshake
	StateRequestSent                    // PairingRequestAck
	StateOptionReceived                 // PairingOption
	StateConfigurationSent              // PairingConfigurationAck
	StateAwaitingSecret                 // a code from the caller
	StateSecretSent                     // PairingSecretAck
	StatePaired
	StateFailed
)

var stateNames = [...]string{
	"connecting", "request_sent", "option_received", "configuration_sent",
	"awaiting_secret", "secret_sent", "paired", "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Code parameters this client proposes: a six-symbol hexadecimal code that
// the user types in.
const (
	codeEncoding = wire.EncodingHexadecimal
	codeLength   = 6
	clientRole   = wire.RoleInput
)

// step is what the machine asks its driver to do after an inbound message.
type step struct {
	reply           wire.PairingPayload
	secretRequested bool
	paired          bool
}

// machine is the pure handshake state machine. It performs no I/O.
type machine struct {
	state       State
	serviceName string
	clientName  string
}

func newMachine(serviceName, clientName string) *machine {
	return &machine{state: StateConnecting, serviceName: serviceName, clientName: clientName}
}

// start is called once the transport is up and returns the opening request.
func (m *machine) start() wire.PairingPayload {
	m.state = StateRequestSent
	return &wire.PairingRequest{ServiceName: m.serviceName, ClientName: m.clientName}
}

func (m *machine) receive(msg *wire.PairingMessage) (step, error) {
	if m.state == StatePaired || m.state == StateFailed {
		return step{}, fmt.Errorf("%w: %s after handshake ended", ErrUnexpectedMessage, msg.Kind())
	}
	if msg.Status != wire.StatusOK {
		m.state = StateFailed
		return step{}, &StatusError{Status: msg.Status}
	}

	switch msg.Payload.(type) {
	case nil:
		return step{}, nil
	case *wire.PairingRequestAck:
		if m.state == StateRequestSent {
			m.state = StateOptionReceived
			return step{reply: &wire.PairingOption{
				InputEncodings: []wire.PairingEncoding{{Type: codeEncoding, SymbolLength: codeLength}},
				PreferredRole:  clientRole,
			}}, nil
		}
	case *wire.PairingOption:
		if m.state == StateOptionReceived {
			m.state = StateConfigurationSent
			return step{reply: &wire.PairingConfiguration{
				Encoding:   &wire.PairingEncoding{Type: codeEncoding, SymbolLength: codeLength},
				ClientRole: clientRole,
			}}, nil
		}
	case *wire.PairingConfigurationAck:
		if m.state == StateConfigurationSent {
			m.state = StateAwaitingSecret
			return step{secretRequested: true}, nil
		}
	case *wire.PairingSecretAck:
		if m.state == StateSecretSent {
			m.state = StatePaired
			return step{paired: true}, nil
		}
	}

	prev := m.state
	m.state = StateFailed
	return step{}, fmt.Errorf("%w: %s in state %s", ErrUnexpectedMessage, msg.Kind(), prev)
}

// submit moves AwaitingSecret to SecretSent with a verified secret.
func (m *machine) submit(secret []byte) (wire.PairingPayload, error) {
	if m.state != StateAwaitingSecret {
		return nil, ErrNotAwaitingSecret
	}
	m.state = StateSecretSent
	return &wire.PairingSecret{Secret: secret}, nil
}

func (m *machine) fail() {
	m.state = StateFailed
}
