package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/louis49/androidtv-remote/internal/wire"
	"github.com/louis49/androidtv-remote/pkg/keycode"
)

// MaxVolumeSteps bounds a single AdjustVolume call.
const MaxVolumeSteps = 100

// SendKey sends one key event. Commands are fire-and-forget: the device
// acknowledges nothing, though it may later push a new state.
func (s *Session) SendKey(code keycode.KeyCode, dir keycode.Direction) error {
	return s.send(&wire.RemoteKeyInject{KeyCode: code, Direction: dir})
}

// SendLongPress holds code down for hold, sending the start and end of the
// press as separate frames. If ctx ends while the key is held, the release
// is still sent.
func (s *Session) SendLongPress(ctx context.Context, code keycode.KeyCode, hold time.Duration) error {
	if err := s.SendKey(code, keycode.DirectionStartLong); err != nil {
		return err
	}
	t := time.NewTimer(hold)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	return s.SendKey(code, keycode.DirectionEndLong)
}

// SendPower toggles the device's power with a short press.
func (s *Session) SendPower() error {
	return s.SendKey(keycode.Power, keycode.DirectionShort)
}

// SendAppLink asks the device to open a deep link.
func (s *Session) SendAppLink(link string) error {
	return s.send(&wire.RemoteAppLinkLaunchRequest{AppLink: link})
}

// AdjustVolume presses volume up (steps > 0) or down (steps < 0) |steps|
// times.
func (s *Session) AdjustVolume(steps int) error {
	if steps > MaxVolumeSteps || steps < -MaxVolumeSteps {
		return fmt.Errorf("%w: %d", ErrInvalidStep, steps)
	}
	code := keycode.VolumeUp
	if steps < 0 {
		code, steps = keycode.VolumeDown, -steps
	}
	for range steps {
		if err := s.SendKey(code, keycode.DirectionShort); err != nil {
			return err
		}
	}
	return nil
}

// SendImeStatus reports the text-field state of an application to the
// device.
func (s *Session) SendImeStatus(appPackage string, status *wire.RemoteTextFieldStatus) error {
	return s.send(&wire.RemoteImeKeyInject{
		AppInfo:         &wire.RemoteAppInfo{AppPackage: appPackage},
		TextFieldStatus: status,
	})
}
