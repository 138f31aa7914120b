// Package controltest provides test doubles for the control package.
package controltest

import (
	"context"
	"fmt"
	"sync"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"github.com/louis49/androidtv-remote/pkg/keycode"
)

// Remote is a recording control.Remote. Calls are logged as strings such
// as "key KEYCODE_HOME SHORT" or "volume -2".
type Remote struct {
	// Err, when set, is returned from every command.
	Err error

	StateVal     androidtv.State
	Disconnected bool

	mu    sync.Mutex
	calls []string
	codes []string
}

var _ control.Remote = (*Remote)(nil)

func (r *Remote) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.Err
}

// SendKey implements control.Remote.
func (r *Remote) SendKey(code keycode.KeyCode, dir keycode.Direction) error {
	return r.record(fmt.Sprintf("key %s %s", code, dir))
}

// SendPower implements control.Remote.
func (r *Remote) SendPower() error { return r.record("power") }

// SendAppLink implements control.Remote.
func (r *Remote) SendAppLink(link string) error { return r.record("applink " + link) }

// AdjustVolume implements control.Remote.
func (r *Remote) AdjustVolume(steps int) error { return r.record(fmt.Sprintf("volume %d", steps)) }

// SendCode implements control.Remote.
func (r *Remote) SendCode(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
	return r.Err
}

// State implements control.Remote.
func (r *Remote) State() androidtv.State { return r.StateVal }

// Connected implements control.Remote.
func (r *Remote) Connected() bool { return !r.Disconnected }

// Calls returns the commands received so far.
func (r *Remote) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Codes returns the pairing codes received so far.
func (r *Remote) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.codes...)
}
