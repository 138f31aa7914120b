// Package supervisor keeps a remote session connected, reconnecting after
// transient failures and giving up on the ones that need a person.
package supervisor

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Cause classifies why a connection attempt failed or a session ended.
type Cause int

const (
	// CauseClean is an orderly close by the peer.
	CauseClean Cause = iota
	// CauseReset means the device reset the connection, which it does when
	// it no longer trusts this client's certificate.
	CauseReset
	// CauseRefused means nothing is listening yet, usually while the device
	// boots.
	CauseRefused
	// CauseHostDown means the device is off the network.
	CauseHostDown
	// CauseOther covers timeouts, corrupt frames and anything unrecognised.
	CauseOther
)

var causeNames = [...]string{"clean", "reset", "refused", "host_down", "other"}

func (c Cause) String() string {
	if c >= 0 && int(c) < len(causeNames) {
		return causeNames[c]
	}
	return fmt.Sprintf("cause(%d)", int(c))
}

// Reconnect reports whether a session ending with c is retried.
func (c Cause) Reconnect() bool {
	switch c {
	case CauseReset, CauseHostDown:
		return false
	}
	return true
}

// Classify maps a session or dial error to a Cause. A nil error is a clean
// close.
func Classify(err error) Cause {
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return CauseClean
	case errors.Is(err, syscall.ECONNRESET):
		return CauseReset
	case errors.Is(err, syscall.ECONNREFUSED):
		return CauseRefused
	case errors.Is(err, syscall.EHOSTDOWN), errors.Is(err, syscall.EHOSTUNREACH):
		return CauseHostDown
	}
	return CauseOther
}
