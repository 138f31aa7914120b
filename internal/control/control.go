// Package control is the contract between the androidtv.remote module and
// the modules that drive it: the HTTP gateway, the scheduler and the MCP
// tools.
package control

import (
	"context"
	"errors"

	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"github.com/louis49/androidtv-remote/pkg/keycode"
)

// Service names registered on the AppContext.
const (
	ServiceRemote   = "androidtv.remote"
	ServiceEvents   = "androidtv.events"
	ServiceMetrics  = "metrics"
	ServiceRedactor = "security.redactor"
)

// ErrInvalidAction is returned for an Action that cannot be sent.
var ErrInvalidAction = errors.New("control: invalid action")

// Remote is the subset of *androidtv.Remote that the control surfaces use.
type Remote interface {
	SendKey(code keycode.KeyCode, dir keycode.Direction) error
	SendPower() error
	SendAppLink(link string) error
	AdjustVolume(steps int) error
	SendCode(ctx context.Context, code string) error
	State() androidtv.State
	Connected() bool
}

var _ Remote = (*androidtv.Remote)(nil)
