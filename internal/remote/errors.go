// Package remote drives the long-lived control session with a paired
// television: it answers the device's configuration and keepalive traffic,
// tracks the state the device reports and sends key, volume and app-link
// commands.
package remote

import "errors"

// Sentinel errors for the remote package.
var (
	ErrClosed      = errors.New("remote: session closed")
	ErrInvalidStep = errors.New("remote: volume steps out of range")
)
