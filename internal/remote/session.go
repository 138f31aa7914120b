package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louis49/androidtv-remote/internal/identity"
	"github.com/louis49/androidtv-remote/internal/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultPort is the television's remote-control port.
	DefaultPort = 6466

	// DefaultIdleTimeout tears the connection down when nothing, not even a
	// ping, arrives for this long. Devices ping about every five seconds.
	DefaultIdleTimeout = 10 * time.Second

	defaultDialTimeout = 10 * time.Second
	readChunkSize      = 4096

	// configureCode is the protocol constant echoed in configure and
	// set-active replies.
	configureCode = 622
)

var tracer = otel.Tracer("github.com/louis49/androidtv-remote/internal/remote")

// Config configures one remote connection.
type Config struct {
	Addr     string
	Identity *identity.Identity

	// DeviceInfo is consulted each time the device asks this client to
	// configure. It must not block. Nil reports the defaults.
	DeviceInfo func() DeviceInfo

	// Emit receives events from the session's read goroutine. It must not
	// block.
	Emit func(Event)

	Logger      *slog.Logger
	Observer    wire.FrameObserver
	DialTimeout time.Duration
	IdleTimeout time.Duration
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.Emit == nil {
		c.Emit = func(Event) {}
	}
	if c.DeviceInfo == nil {
		c.DeviceInfo = func() DeviceInfo { return DeviceInfo{} }
	}
}

// Session is one authenticated connection to the remote port. It is never
// reused: a reconnect builds a new Session.
type Session struct {
	conn   net.Conn
	codec  *wire.Codec
	logger *slog.Logger
	cfg    Config

	writeMu sync.Mutex

	mu    sync.Mutex
	state State

	closed    atomic.Bool
	closeOnce sync.Once
}

// Dial connects to the television's remote port with TLS, presenting the
// paired identity.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	cfg.defaults()

	ctx, span := tracer.Start(ctx, "remote.dial", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("net.peer.addr", cfg.Addr))
	defer span.End()

	d := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: cfg.DialTimeout},
		Config:    cfg.Identity.ClientTLSConfig(),
	}
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return nil, fmt.Errorf("remote: dial %s: %w", cfg.Addr, err)
	}
	return NewSession(conn, cfg), nil
}

// NewSession wraps an established transport.
func NewSession(conn net.Conn, cfg Config) *Session {
	cfg.defaults()
	logger := cfg.Logger.With("component", "remote", "addr", cfg.Addr)
	return &Session{
		conn:   conn,
		codec:  wire.NewRemoteCodec(logger, cfg.Observer),
		logger: logger,
		cfg:    cfg,
	}
}

// Run reads and dispatches messages until the connection ends. It returns
// io.EOF when the device closes the connection cleanly, ErrClosed after
// Close, ctx.Err() when ctx ends and the transport error otherwise. The
// connection is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()
	defer s.Close()

	err := s.readLoop()
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case s.closed.Load() && !errors.Is(err, io.EOF):
		return ErrClosed
	}
	return err
}

func (s *Session) readLoop() error {
	var buf wire.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
			return fmt.Errorf("remote: set deadline: %w", err)
		}
		n, err := s.conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if derr := s.drain(&buf); derr != nil {
				return derr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("remote: read: %w", err)
		}
	}
}

// drain dispatches every complete frame in buf, in arrival order.
func (s *Session) drain(buf *wire.Buffer) error {
	for {
		payload, ok, err := buf.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		msg := &wire.RemoteMessage{}
		if err := s.codec.Unmarshal(payload, msg); err != nil {
			return err
		}
		if err := s.dispatch(msg); err != nil {
			return err
		}
	}
}

func (s *Session) dispatch(msg *wire.RemoteMessage) error {
	switch p := msg.Payload.(type) {
	case nil:
		s.logger.Debug("unknown message")

	case *wire.RemoteConfigure:
		info := s.cfg.DeviceInfo().withDefaults()
		if err := s.send(&wire.RemoteConfigure{
			Code1: configureCode,
			DeviceInfo: &wire.RemoteDeviceInfo{
				Model:       info.Model,
				Vendor:      info.Vendor,
				Unknown1:    1,
				Unknown2:    "1",
				PackageName: info.PackageName,
				AppVersion:  info.AppVersion,
			},
		}); err != nil {
			return err
		}
		s.update(func(st *State) { st.Ready = true })
		s.cfg.Emit(Event{Kind: EventReady})

	case *wire.RemoteSetActive:
		return s.send(&wire.RemoteSetActive{Active: configureCode})

	case *wire.RemotePingRequest:
		return s.send(&wire.RemotePingResponse{Val1: p.Val1})

	case *wire.RemoteImeKeyInject:
		var app string
		if p.AppInfo != nil {
			app = p.AppInfo.AppPackage
		}
		s.update(func(st *State) { st.CurrentApp = app })
		s.cfg.Emit(Event{Kind: EventCurrentApp, CurrentApp: app})

	case *wire.RemoteStart:
		s.update(func(st *State) { st.Powered = p.Started })
		s.cfg.Emit(Event{Kind: EventPowered, Powered: p.Started})

	case *wire.RemoteSetVolumeLevel:
		v := Volume{Level: p.VolumeLevel, Maximum: p.VolumeMax, Muted: p.VolumeMuted}
		s.update(func(st *State) { st.Volume = v })
		s.cfg.Emit(Event{Kind: EventVolume, Volume: v})

	case *wire.RemoteError:
		s.logger.Warn("device reported an error", "message", msg)
		s.cfg.Emit(Event{Kind: EventError, Error: p})

	default:
		// IME edits, voice traffic and audio-device changes carry nothing
		// this client tracks.
		s.logger.Debug("ignoring message", "kind", msg.Kind())
	}
	return nil
}

func (s *Session) update(f func(*State)) {
	s.mu.Lock()
	f(&s.state)
	s.mu.Unlock()
}

// State returns what the device has reported so far on this connection.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) send(p wire.RemotePayload) error {
	if s.closed.Load() {
		return ErrClosed
	}
	frame, err := s.codec.Encode(wire.NewRemoteMessage(p))
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.conn.Write(frame); err != nil {
		if s.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("remote: write: %w", err)
	}
	return nil
}

// Close tears down the transport. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		err = s.conn.Close()
	})
	return err
}
