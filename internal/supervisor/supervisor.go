package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/louis49/androidtv-remote/internal/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultDelay is the fixed wait between reconnect attempts.
const DefaultDelay = time.Second

// Sentinel errors for the supervisor package.
var (
	ErrNotConnected = errors.New("supervisor: not connected")
	ErrRunning      = errors.New("supervisor: already running")
	ErrStopped      = errors.New("supervisor: stopped")
)

var tracer = otel.Tracer("github.com/louis49/androidtv-remote/internal/supervisor")

// Session is one connection the supervisor keeps alive.
type Session interface {
	// Run blocks until the session ends and returns why.
	Run(ctx context.Context) error
	Close() error
}

// Config configures a Supervisor. Callbacks run without the supervisor's
// lock held and must not block.
type Config[S Session] struct {
	// Connect establishes a new session.
	Connect func(ctx context.Context) (S, error)

	Delay  time.Duration
	Clock  clock.Clock
	Logger *slog.Logger

	OnConnected func(S)
	// OnClosed is called for every failed attempt and every ended session
	// that was not stopped.
	OnClosed func(cause Cause, err error)
	// OnUnpaired is called when the device resets the connection.
	OnUnpaired func()
}

// Supervisor owns at most one active session. A reconnect always builds a
// new session; a generation counter makes late results from superseded
// attempts and sessions harmless.
type Supervisor[S Session] struct {
	cfg Config[S]

	mu        sync.Mutex
	running   bool
	gen       uint64
	current   S
	connected bool
	retry     *clock.Timer
	ctx       context.Context
	cancel    context.CancelFunc
}

// New returns an idle Supervisor.
func New[S Session](cfg Config[S]) *Supervisor[S] {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Logger = cfg.Logger.With("component", "supervisor")
	return &Supervisor[S]{cfg: cfg}
}

// Start makes the first connection attempt with ctx and returns its error.
// When that error is retriable, attempts continue in the background until
// Stop. If ctx ends during the attempt nothing is left running. Sessions
// outlive ctx; only Stop ends them.
func (s *Supervisor[S]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	s.gen++
	gen := s.gen
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Unlock()

	return s.attempt(ctx, gen)
}

// attempt dials once for generation gen. It returns ErrStopped when gen
// was superseded while dialing.
func (s *Supervisor[S]) attempt(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return ErrStopped
	}
	runCtx := s.ctx
	s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "supervisor.attempt")
	span.SetAttributes(attribute.Int64("supervisor.generation", int64(gen)))
	sess, err := s.cfg.Connect(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "connect failed")
	}
	span.End()

	if err != nil {
		if ctx.Err() != nil {
			s.abandon(gen)
			return err
		}
		s.closed(gen, err)
		return err
	}

	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		_ = sess.Close()
		return ErrStopped
	}
	s.current, s.connected = sess, true
	s.mu.Unlock()

	s.cfg.Logger.Info("connected", "generation", gen)
	if s.cfg.OnConnected != nil {
		s.cfg.OnConnected(sess)
	}
	go func() {
		s.closed(gen, sess.Run(runCtx))
	}()
	return nil
}

// closed handles the end of generation gen, scheduling the next attempt
// when the cause allows it.
func (s *Supervisor[S]) closed(gen uint64, err error) {
	cause := Classify(err)

	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	var zero S
	s.current, s.connected = zero, false
	if cause.Reconnect() {
		s.gen++
		next := s.gen
		s.retry = s.cfg.Clock.AfterFunc(s.cfg.Delay, func() {
			_ = s.attempt(s.retryContext(), next)
		})
	} else {
		s.running = false
		s.cancel()
	}
	s.mu.Unlock()

	s.cfg.Logger.Info("connection closed", "cause", cause.String(), "error", err, "reconnect", cause.Reconnect())
	if s.cfg.OnClosed != nil {
		s.cfg.OnClosed(cause, err)
	}
	if cause == CauseReset && s.cfg.OnUnpaired != nil {
		s.cfg.OnUnpaired()
	}
}

// abandon ends generation gen without scheduling another attempt.
func (s *Supervisor[S]) abandon(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || gen != s.gen {
		return
	}
	s.running = false
	s.gen++
	s.cancel()
	s.cfg.Logger.Info("connect abandoned", "generation", gen)
}

func (s *Supervisor[S]) retryContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// Stop disables reconnecting, cancels a pending retry and closes the active
// session, all under one lock so that no close already in flight can
// schedule another attempt. It is safe to call more than once.
func (s *Supervisor[S]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	if s.connected {
		_ = s.current.Close()
		var zero S
		s.current, s.connected = zero, false
	}
	s.cancel()
	s.cfg.Logger.Info("stopped")
}

// Current returns the active session.
func (s *Supervisor[S]) Current() (S, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		var zero S
		return zero, ErrNotConnected
	}
	return s.current, nil
}

// Running reports whether the supervisor is connected or will retry.
func (s *Supervisor[S]) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
