package pairing

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/louis49/androidtv-remote/internal/identity"
	"github.com/louis49/androidtv-remote/internal/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPort is the television's pairing port.
	DefaultPort = 6467

	defaultDialTimeout = 10 * time.Second
	readChunkSize      = 4096
)

var tracer = otel.Tracer("github.com/louis49/androidtv-remote/internal/pairing")

// Config configures one pairing attempt.
type Config struct {
	// Addr is the television's host:port.
	Addr string

	ServiceName string
	ClientName  string
	Identity    *identity.Identity

	// OnSecret is called, from the session goroutine, when the television
	// displays a code and SendCode should be called.
	OnSecret func()

	Logger      *slog.Logger
	Observer    wire.FrameObserver
	DialTimeout time.Duration
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
}

type codeRequest struct {
	code  string
	reply chan error
}

// Session is a single pairing attempt over one TLS connection. It never
// retries; a failed session must be replaced.
type Session struct {
	conn      net.Conn
	clientKey *rsa.PublicKey
	serverKey *rsa.PublicKey
	codec     *wire.Codec
	logger    *slog.Logger
	onSecret  func()
	machine   *machine

	codes chan codeRequest
	stop  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
}

// Dial connects to the television's pairing port with TLS, presenting the
// configured identity.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	cfg.defaults()

	ctx, span := tracer.Start(ctx, "pairing.dial", trace.WithSpanKind(trace.SpanKindClient))
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
		return nil, fmt.Errorf("pairing: dial %s: %w", cfg.Addr, err)
	}

	serverKey, err := peerKey(conn.(*tls.Conn))
	if err != nil {
		_ = conn.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad peer certificate")
		return nil, err
	}
	return NewSession(conn, serverKey, cfg), nil
}

func peerKey(conn *tls.Conn) (*rsa.PublicKey, error) {
	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: no certificate presented", ErrNotRSA)
	}
	key, ok := certs[0].PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return key, nil
}

// NewSession wraps an established transport. serverKey is the television's
// certificate public key.
func NewSession(conn net.Conn, serverKey *rsa.PublicKey, cfg Config) *Session {
	cfg.defaults()
	logger := cfg.Logger.With("component", "pairing", "addr", cfg.Addr)
	return &Session{
		conn:      conn,
		clientKey: cfg.Identity.PublicKey(),
		serverKey: serverKey,
		codec:     wire.NewPairingCodec(logger, cfg.Observer),
		logger:    logger,
		onSecret:  cfg.OnSecret,
		machine:   newMachine(cfg.ServiceName, cfg.ClientName),
		codes:     make(chan codeRequest),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run drives the handshake until it completes, fails or ctx ends. It
// returns nil only once the television has acknowledged the secret. The
// connection is closed when Run returns.
func (s *Session) Run(ctx context.Context) (err error) {
	defer close(s.done)

	ctx, span := tracer.Start(ctx, "pairing.run")
	defer func() {
		span.SetAttributes(attribute.String("pairing.state", s.machine.state.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pairing failed")
		}
		span.End()
	}()

	g, gctx := errgroup.WithContext(ctx)
	inbound := make(chan *wire.PairingMessage)
	g.Go(func() error { return s.readLoop(inbound) })
	g.Go(func() error { return s.loop(gctx, inbound) })

	err = g.Wait()
	// The television closes the connection right after PairingSecretAck, so
	// the read loop may fail after the handshake has already completed.
	if s.machine.state == StatePaired {
		err = nil
	}
	if err != nil {
		s.logger.Warn("pairing failed", "state", s.machine.state.String(), "error", err)
	} else {
		s.logger.Info("paired")
	}
	return err
}

func (s *Session) loop(ctx context.Context, inbound <-chan *wire.PairingMessage) error {
	defer s.Close()
	defer close(s.stop)

	if err := s.send(s.machine.start()); err != nil {
		s.machine.fail()
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.machine.fail()
			return ctx.Err()

		case msg := <-inbound:
			st, err := s.machine.receive(msg)
			if err != nil {
				return err
			}
			if msg.Payload == nil {
				s.logger.Debug("ignoring empty pairing message")
			}
			if st.reply != nil {
				if err := s.send(st.reply); err != nil {
					s.machine.fail()
					return err
				}
			}
			if st.secretRequested {
				s.logger.Info("television is displaying a pairing code")
				if s.onSecret != nil {
					s.onSecret()
				}
			}
			if st.paired {
				return nil
			}

		case req := <-s.codes:
			err := s.submitCode(req.code)
			req.reply <- err
			if errors.Is(err, ErrBadCode) {
				return err
			}
		}
	}
}

func (s *Session) submitCode(code string) error {
	if s.machine.state != StateAwaitingSecret {
		return ErrNotAwaitingSecret
	}
	secret, err := Secret(s.clientKey, s.serverKey, code)
	if errors.Is(err, ErrBadCode) {
		s.machine.fail()
		return err
	}
	if err != nil {
		return err
	}
	payload, err := s.machine.submit(secret)
	if err != nil {
		return err
	}
	return s.send(payload)
}

// readLoop feeds decoded messages to the state loop. It returns nil once the
// state loop has finished, whatever the read error.
func (s *Session) readLoop(out chan<- *wire.PairingMessage) error {
	var buf wire.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := s.conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			for {
				payload, ok, ferr := buf.Next()
				if ferr != nil {
					return ferr
				}
				if !ok {
					break
				}
				msg := &wire.PairingMessage{}
				if derr := s.codec.Unmarshal(payload, msg); derr != nil {
					return derr
				}
				select {
				case out <- msg:
				case <-s.stop:
					return nil
				}
			}
		}
		if err != nil {
			select {
			case <-s.stop:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				return ErrConnectionClosed
			}
			return fmt.Errorf("pairing: read: %w", err)
		}
	}
}

func (s *Session) send(p wire.PairingPayload) error {
	frame, err := s.codec.Encode(wire.NewPairingMessage(p))
	if err != nil {
		return err
	}
	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("pairing: write: %w", err)
	}
	return nil
}

// SendCode submits the code displayed by the television. ErrBadCode ends
// the session; ErrInvalidCode leaves it waiting for another attempt.
func (s *Session) SendCode(ctx context.Context, code string) error {
	req := codeRequest{code: code, reply: make(chan error, 1)}
	select {
	case s.codes <- req:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears down the transport. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() { err = s.conn.Close() })
	return err
}
