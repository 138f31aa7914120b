package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/louis49/androidtv-remote/internal/wire"
	"github.com/louis49/androidtv-remote/pkg/keycode"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeDevice plays the television side of a remote connection.
type fakeDevice struct {
	t     *testing.T
	conn  net.Conn
	codec *wire.Codec
	buf   wire.Buffer
}

func (d *fakeDevice) send(p wire.RemotePayload) {
	d.t.Helper()
	frame, err := d.codec.Encode(wire.NewRemoteMessage(p))
	if err != nil {
		d.t.Fatalf("encode %T: %v", p, err)
	}
	if _, err := d.conn.Write(frame); err != nil {
		d.t.Fatalf("write: %v", err)
	}
}

func (d *fakeDevice) recv() wire.RemotePayload {
	d.t.Helper()
	_ = d.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	chunk := make([]byte, 1024)
	for {
		payload, ok, err := d.buf.Next()
		if err != nil {
			d.t.Fatalf("frame: %v", err)
		}
		if ok {
			msg := &wire.RemoteMessage{}
			if err := d.codec.Unmarshal(payload, msg); err != nil {
				d.t.Fatalf("decode: %v", err)
			}
			return msg.Payload
		}
		n, err := d.conn.Read(chunk)
		if err != nil {
			d.t.Fatalf("read: %v", err)
		}
		d.buf.Write(chunk[:n])
	}
}

type harness struct {
	sess   *Session
	dev    *fakeDevice
	events chan Event
	done   chan error
	cancel context.CancelFunc
}

func start(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()
	local, remote := net.Pipe()
	events := make(chan Event, 16)
	cfg := Config{
		Logger: discardLogger(),
		Emit:   func(e Event) { events <- e },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{
		sess:   NewSession(local, cfg),
		dev:    &fakeDevice{t: t, conn: remote, codec: wire.NewRemoteCodec(discardLogger(), nil)},
		events: events,
		done:   make(chan error, 1),
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.sess.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = remote.Close()
	})
	return h
}

func (h *harness) event(t *testing.T) Event {
	t.Helper()
	select {
	case e := <-h.events:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
		return Event{}
	}
}

func (h *harness) result(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestSession_ConfigureRepliesAndEmitsReady(t *testing.T) {
	t.Parallel()

	h := start(t, func(c *Config) {
		c.DeviceInfo = func() DeviceInfo { return DeviceInfo{Model: "Pixel", Vendor: "Google"} }
	})
	h.dev.send(&wire.RemoteConfigure{Code1: 622, DeviceInfo: &wire.RemoteDeviceInfo{Model: "tv"}})

	want := &wire.RemoteConfigure{
		Code1: 622,
		DeviceInfo: &wire.RemoteDeviceInfo{
			Model:       "Pixel",
			Vendor:      "Google",
			Unknown1:    1,
			Unknown2:    "1",
			PackageName: DefaultPackageName,
			AppVersion:  DefaultAppVersion,
		},
	}
	if diff := cmp.Diff(want, h.dev.recv()); diff != "" {
		t.Errorf("configure reply (-want +got):\n%s", diff)
	}
	if e := h.event(t); e.Kind != EventReady {
		t.Errorf("event = %v, want ready", e.Kind)
	}
	if !h.sess.State().Ready {
		t.Error("State().Ready = false after configure")
	}
}

func TestSession_DefaultDeviceInfo(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	h.dev.send(&wire.RemoteConfigure{})

	got, ok := h.dev.recv().(*wire.RemoteConfigure)
	if !ok {
		t.Fatal("expected configure reply")
	}
	if got.DeviceInfo.Model != DefaultModel || got.DeviceInfo.Vendor != DefaultVendor {
		t.Errorf("device info = %+v, want defaults", got.DeviceInfo)
	}
}

func TestSession_Replies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   wire.RemotePayload
		want wire.RemotePayload
	}{
		{"set active", &wire.RemoteSetActive{Active: 1}, &wire.RemoteSetActive{Active: 622}},
		{"ping", &wire.RemotePingRequest{Val1: 42, Val2: 7}, &wire.RemotePingResponse{Val1: 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := start(t, nil)
			h.dev.send(tt.in)
			if diff := cmp.Diff(tt.want, h.dev.recv()); diff != "" {
				t.Errorf("reply (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSession_Events(t *testing.T) {
	t.Parallel()

	remoteErr := &wire.RemoteError{Value: true}
	tests := []struct {
		name  string
		in    wire.RemotePayload
		want  Event
		state State
	}{
		{
			name:  "volume",
			in:    &wire.RemoteSetVolumeLevel{VolumeLevel: 5, VolumeMax: 20, VolumeMuted: false},
			want:  Event{Kind: EventVolume, Volume: Volume{Level: 5, Maximum: 20}},
			state: State{Volume: Volume{Level: 5, Maximum: 20}},
		},
		{
			name:  "powered",
			in:    &wire.RemoteStart{Started: true},
			want:  Event{Kind: EventPowered, Powered: true},
			state: State{Powered: true},
		},
		{
			name:  "current app",
			in:    &wire.RemoteImeKeyInject{AppInfo: &wire.RemoteAppInfo{AppPackage: "com.netflix.ninja"}},
			want:  Event{Kind: EventCurrentApp, CurrentApp: "com.netflix.ninja"},
			state: State{CurrentApp: "com.netflix.ninja"},
		},
		{
			name: "error",
			in:   remoteErr,
			want: Event{Kind: EventError, Error: remoteErr},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := start(t, nil)
			h.dev.send(tt.in)
			if diff := cmp.Diff(tt.want, h.event(t)); diff != "" {
				t.Errorf("event (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.state, h.sess.State()); diff != "" {
				t.Errorf("state (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSession_IgnoredMessagesKeepSessionAlive(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	h.dev.send(&wire.RemoteImeShowRequest{})
	h.dev.send(&wire.RemoteVoiceBegin{SessionID: 1})
	h.dev.send(&wire.RemoteSetPreferredAudioDevice{})
	h.dev.send(&wire.RemoteStart{Started: true})

	if e := h.event(t); e.Kind != EventPowered {
		t.Fatalf("first event = %v, want powered", e.Kind)
	}
}

func TestSession_ProcessesEveryFrameInOneChunk(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	var chunk []byte
	for _, p := range []wire.RemotePayload{
		&wire.RemoteStart{Started: true},
		&wire.RemoteSetVolumeLevel{VolumeLevel: 3, VolumeMax: 10},
		&wire.RemoteStart{Started: false},
	} {
		frame, err := h.dev.codec.Encode(wire.NewRemoteMessage(p))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		chunk = append(chunk, frame...)
	}
	if _, err := h.dev.conn.Write(chunk); err != nil {
		t.Fatalf("write: %v", err)
	}

	var kinds []EventKind
	for range 3 {
		kinds = append(kinds, h.event(t).Kind)
	}
	want := []EventKind{EventPowered, EventVolume, EventPowered}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("event order (-want +got):\n%s", diff)
	}
}

func TestSession_Commands(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	errc := make(chan error, 1)

	go func() { errc <- h.sess.SendPower() }()
	if diff := cmp.Diff(&wire.RemoteKeyInject{KeyCode: keycode.Power, Direction: keycode.DirectionShort}, h.dev.recv()); diff != "" {
		t.Errorf("power (-want +got):\n%s", diff)
	}
	if err := <-errc; err != nil {
		t.Fatalf("SendPower: %v", err)
	}

	go func() { errc <- h.sess.SendAppLink("https://www.netflix.com/title") }()
	if diff := cmp.Diff(&wire.RemoteAppLinkLaunchRequest{AppLink: "https://www.netflix.com/title"}, h.dev.recv()); diff != "" {
		t.Errorf("app link (-want +got):\n%s", diff)
	}
	if err := <-errc; err != nil {
		t.Fatalf("SendAppLink: %v", err)
	}

	go func() { errc <- h.sess.AdjustVolume(-2) }()
	for range 2 {
		want := &wire.RemoteKeyInject{KeyCode: keycode.VolumeDown, Direction: keycode.DirectionShort}
		if diff := cmp.Diff(want, h.dev.recv()); diff != "" {
			t.Errorf("volume (-want +got):\n%s", diff)
		}
	}
	if err := <-errc; err != nil {
		t.Fatalf("AdjustVolume: %v", err)
	}

	go func() { errc <- h.sess.SendLongPress(context.Background(), keycode.Home, time.Millisecond) }()
	for _, dir := range []keycode.Direction{keycode.DirectionStartLong, keycode.DirectionEndLong} {
		want := &wire.RemoteKeyInject{KeyCode: keycode.Home, Direction: dir}
		if diff := cmp.Diff(want, h.dev.recv()); diff != "" {
			t.Errorf("long press (-want +got):\n%s", diff)
		}
	}
	if err := <-errc; err != nil {
		t.Fatalf("SendLongPress: %v", err)
	}

	go func() { errc <- h.sess.SendImeStatus("com.example", nil) }()
	if diff := cmp.Diff(&wire.RemoteImeKeyInject{AppInfo: &wire.RemoteAppInfo{AppPackage: "com.example"}}, h.dev.recv()); diff != "" {
		t.Errorf("ime status (-want +got):\n%s", diff)
	}
	if err := <-errc; err != nil {
		t.Fatalf("SendImeStatus: %v", err)
	}
}

func TestSession_CommandValidation(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	if err := h.sess.AdjustVolume(MaxVolumeSteps + 1); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("AdjustVolume = %v, want ErrInvalidStep", err)
	}
	if err := h.sess.AdjustVolume(0); err != nil {
		t.Errorf("AdjustVolume(0) = %v, want nil", err)
	}
	if err := h.sess.SendKey(keycode.KeyCode(-1), keycode.DirectionShort); !errors.Is(err, wire.ErrSchemaViolation) {
		t.Errorf("SendKey(invalid) = %v, want ErrSchemaViolation", err)
	}
}

func TestSession_PeerCloseIsEOF(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	_ = h.dev.conn.Close()
	if err := h.result(t); !errors.Is(err, io.EOF) {
		t.Fatalf("Run = %v, want io.EOF", err)
	}
}

func TestSession_LocalClose(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	_ = h.sess.Close()
	if err := h.result(t); !errors.Is(err, ErrClosed) {
		t.Fatalf("Run = %v, want ErrClosed", err)
	}
	if err := h.sess.SendPower(); !errors.Is(err, ErrClosed) {
		t.Errorf("SendPower after close = %v, want ErrClosed", err)
	}
	if err := h.sess.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestSession_ContextCancel(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	h.cancel()
	if err := h.result(t); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestSession_IdleTimeout(t *testing.T) {
	t.Parallel()

	h := start(t, func(c *Config) { c.IdleTimeout = 50 * time.Millisecond })
	if err := h.result(t); !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
}

func TestSession_CorruptFrameEndsSession(t *testing.T) {
	t.Parallel()

	h := start(t, nil)
	// A length prefix whose varint never terminates within ten bytes.
	bad := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	if _, err := h.dev.conn.Write(bad); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := h.result(t); !errors.Is(err, wire.ErrFrameCorrupt) {
		t.Fatalf("Run = %v, want ErrFrameCorrupt", err)
	}
}
