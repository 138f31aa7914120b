package control

import (
	"fmt"
	"strings"

	"github.com/louis49/androidtv-remote/pkg/keycode"
)

// ActionType names what an Action does.
type ActionType string

// Action types.
const (
	ActionPower   ActionType = "power"
	ActionKey     ActionType = "key"
	ActionAppLink ActionType = "applink"
	ActionVolume  ActionType = "volume"
)

// Action is one command for the television, as it appears in scheduler
// configuration and request bodies.
type Action struct {
	Type      ActionType `yaml:"action" json:"action"`
	Key       string     `yaml:"key,omitempty" json:"key,omitempty"`
	Direction string     `yaml:"direction,omitempty" json:"direction,omitempty"`
	URL       string     `yaml:"url,omitempty" json:"url,omitempty"`
	Steps     int        `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Validate checks the fields the action type needs.
func (a Action) Validate() error {
	switch a.Type {
	case ActionPower:
		return nil
	case ActionKey:
		if _, err := keycode.Parse(a.Key); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		if _, err := keycode.ParseDirection(a.Direction); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		return nil
	case ActionAppLink:
		if strings.TrimSpace(a.URL) == "" {
			return fmt.Errorf("%w: applink needs a url", ErrInvalidAction)
		}
		return nil
	case ActionVolume:
		if a.Steps == 0 {
			return fmt.Errorf("%w: volume needs non-zero steps", ErrInvalidAction)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAction, a.Type)
	}
}

// Do validates a and sends it through r.
func Do(r Remote, a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	switch a.Type {
	case ActionPower:
		return r.SendPower()
	case ActionKey:
		code, _ := keycode.Parse(a.Key)
		dir, _ := keycode.ParseDirection(a.Direction)
		return r.SendKey(code, dir)
	case ActionAppLink:
		return r.SendAppLink(a.URL)
	default:
		return r.AdjustVolume(a.Steps)
	}
}
