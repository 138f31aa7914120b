// Package pairing implements the one-time handshake that makes a television
// trust this client's certificate.
package pairing

import (
	"errors"
	"fmt"

	"github.com/louis49/androidtv-remote/internal/wire"
)

// Sentinel errors for the pairing package.
var (
	ErrBadCode           = errors.New("pairing: code does not match")
	ErrInvalidCode       = errors.New("pairing: code must be an even number of hex digits, at least 4")
	ErrUnexpectedMessage = errors.New("pairing: unexpected message")
	ErrNotAwaitingSecret = errors.New("pairing: not waiting for a code")
	ErrConnectionClosed  = errors.New("pairing: connection closed before pairing completed")
	ErrSessionClosed     = errors.New("pairing: session closed")
	ErrNotRSA            = errors.New("pairing: peer certificate is not RSA")
	ErrRejected          = errors.New("pairing: rejected by device")
)

// StatusError is returned when the device answers with a non-OK status.
type StatusError struct {
	Status wire.PairingStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pairing: device returned %s", e.Status)
}

// Is makes every StatusError match ErrRejected.
func (e *StatusError) Is(target error) bool {
	return target == ErrRejected
}
