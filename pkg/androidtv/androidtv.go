// Package androidtv is a client for the Android TV remote-control protocol.
//
// A Remote pairs with a television once, then keeps a control session open,
// reconnecting while the television is unreachable. Pairing needs the code
// the television displays: when an EventSecret arrives, call SendCode.
//
//	r, err := androidtv.New(androidtv.Options{Host: "192.168.1.20"})
//	...
//	go func() {
//		for e := range r.Events() {
//			if e.Kind == androidtv.EventSecret {
//				_ = r.SendCode(ctx, readCode())
//			}
//		}
//	}()
//	if err := r.Start(ctx); err != nil { ... }
//	_ = r.SendPower()
package androidtv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louis49/androidtv-remote/internal/clock"
	"github.com/louis49/androidtv-remote/internal/hostinfo"
	"github.com/louis49/androidtv-remote/internal/identity"
	"github.com/louis49/androidtv-remote/internal/metrics"
	"github.com/louis49/androidtv-remote/internal/pairing"
	"github.com/louis49/androidtv-remote/internal/remote"
	"github.com/louis49/androidtv-remote/internal/supervisor"
	"github.com/louis49/androidtv-remote/internal/wire"
	"github.com/louis49/androidtv-remote/pkg/keycode"
)

// Defaults applied by New.
const (
	DefaultServiceName = "androidtv-remote"
	DefaultEventBuffer = 64

	// pairingSettle is the pause between a completed pairing and the first
	// remote connection; the television needs it to register the
	// certificate.
	pairingSettle = time.Second

	hostLookupTimeout = 5 * time.Second
)

// Sentinel errors for the androidtv package.
var (
	ErrNoHost       = errors.New("androidtv: host is required")
	ErrNotConnected = errors.New("androidtv: not connected")
	ErrNotPairing   = errors.New("androidtv: no pairing in progress")
	ErrNoIdentity   = errors.New("androidtv: no certificate yet")
	// ErrStopped is returned by a Start that Stop interrupted.
	ErrStopped = errors.New("androidtv: stopped")
	// ErrPairingInProgress is returned by a Start that would dial the
	// pairing port while another Start is already pairing.
	ErrPairingInProgress = errors.New("androidtv: pairing already in progress")
	// ErrPairing wraps every error from the pairing step of Start.
	ErrPairing = errors.New("androidtv: pairing failed")
	// ErrUnpaired means the television reset the connection because it no
	// longer trusts the certificate.
	ErrUnpaired = errors.New("androidtv: television does not trust this client")
)

// Certificate is a paired identity in PEM form.
type Certificate struct {
	Cert []byte `json:"cert"`
	Key  []byte `json:"key"`
}

// DeviceInfo is what the television is told about this client.
type DeviceInfo struct {
	Model  string
	Vendor string
}

// Options configures a Remote.
type Options struct {
	Host        string
	PairingPort int
	RemotePort  int
	ServiceName string
	// ClientName is shown by the television while pairing. It defaults to
	// the host's model.
	ClientName     string
	ReconnectDelay time.Duration

	// Certificate is a previously paired identity. When set, Start skips
	// pairing.
	Certificate *Certificate

	// DeviceInfo overrides the host lookup.
	DeviceInfo *DeviceInfo

	EventBuffer int
	Logger      *slog.Logger
	Clock       clock.Clock
	Metrics     *metrics.Metrics

	lookup func(context.Context) (hostinfo.Info, error)
}

// Remote controls one television.
type Remote struct {
	opts   Options
	logger *slog.Logger
	events chan Event
	sup    *supervisor.Supervisor[*remote.Session]
	info   atomic.Pointer[remote.DeviceInfo]

	lookupOnce sync.Once

	mu      sync.Mutex
	ident   *identity.Identity
	paired  bool
	pairing *pairing.Session
	busy    bool // a Start is pairing
	// stops counts Stop calls; stopped is closed and replaced by each one.
	stops   uint64
	stopped chan struct{}
}

// New validates opts and returns a stopped Remote.
func New(opts Options) (*Remote, error) {
	if opts.Host == "" {
		return nil, ErrNoHost
	}
	if opts.PairingPort == 0 {
		opts.PairingPort = pairing.DefaultPort
	}
	if opts.RemotePort == 0 {
		opts.RemotePort = remote.DefaultPort
	}
	if opts.ServiceName == "" {
		opts.ServiceName = DefaultServiceName
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = supervisor.DefaultDelay
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = DefaultEventBuffer
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.lookup == nil {
		opts.lookup = hostinfo.Lookup
	}

	r := &Remote{
		opts:    opts,
		logger:  opts.Logger.With("component", "androidtv", "host", opts.Host),
		events:  make(chan Event, opts.EventBuffer),
		stopped: make(chan struct{}),
	}

	if opts.Certificate != nil {
		id, err := identity.Parse(opts.Certificate.Cert, opts.Certificate.Key)
		if err != nil {
			return nil, fmt.Errorf("androidtv: certificate: %w", err)
		}
		r.ident, r.paired = id, true
	}
	if opts.DeviceInfo != nil {
		r.info.Store(&remote.DeviceInfo{Model: opts.DeviceInfo.Model, Vendor: opts.DeviceInfo.Vendor})
	}

	r.sup = supervisor.New(supervisor.Config[*remote.Session]{
		Connect:     r.connect,
		Delay:       opts.ReconnectDelay,
		Clock:       opts.Clock,
		Logger:      r.logger,
		OnConnected: r.onConnected,
		OnClosed:    r.onClosed,
		OnUnpaired:  r.onUnpaired,
	})
	return r, nil
}

// Start pairs if needed, then connects the control session. It returns nil
// once connected. Pairing failures, including a bad code, wrap ErrPairing.
// When the first connection attempt fails with a transient error, Start
// returns it and keeps retrying in the background until Stop. A Stop that
// lands while Start is still generating the certificate, pairing or
// connecting makes Start return ErrStopped and leaves nothing running.
// Start may be called again after Stop.
func (r *Remote) Start(ctx context.Context) error {
	ctx, gen, cancel := r.watchStop(ctx)
	defer cancel()

	r.lookupHost()

	id, err := r.identity(ctx)
	if r.stoppedSince(gen) {
		return ErrStopped
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	paired := r.paired
	r.mu.Unlock()
	if !paired {
		err := r.pair(ctx, id)
		if r.stoppedSince(gen) {
			return ErrStopped
		}
		if err != nil {
			return err
		}
		err = sleep(ctx, r.opts.Clock, pairingSettle)
		if r.stoppedSince(gen) {
			return ErrStopped
		}
		if err != nil {
			return err
		}
	}

	err = r.sup.Start(ctx)
	if r.stoppedSince(gen) {
		// Stop may have run before the supervisor was started.
		r.sup.Stop()
		return ErrStopped
	}
	if supervisor.Classify(err) == supervisor.CauseReset {
		return fmt.Errorf("%w: %w", ErrUnpaired, err)
	}
	return err
}

// watchStop derives a context that Stop cancels. gen identifies the Stop
// calls made so far.
func (r *Remote) watchStop(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	r.mu.Lock()
	gen, stopped := r.stops, r.stopped
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-stopped:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, gen, cancel
}

func (r *Remote) stoppedSince(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops != gen
}

// identity returns the client identity, generating one off the caller's
// goroutine the first time.
func (r *Remote) identity(ctx context.Context) (*identity.Identity, error) {
	r.mu.Lock()
	id := r.ident
	r.mu.Unlock()
	if id != nil {
		return id, nil
	}

	type result struct {
		id  *identity.Identity
		err error
	}
	done := make(chan result, 1)
	go func() {
		id, err := identity.Generate(identity.Subject{
			CommonName:         r.opts.ServiceName,
			Country:            "CNT",
			State:              "ST",
			Locality:           "LOC",
			Organization:       "O",
			OrganizationalUnit: "OU",
		})
		done <- result{id, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("androidtv: generate certificate: %w", res.err)
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.ident == nil {
			r.ident = res.id
		}
		return r.ident, nil
	}
}

func (r *Remote) pair(ctx context.Context, id *identity.Identity) error {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return ErrPairingInProgress
	}
	r.busy = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
	}()

	sess, err := pairing.Dial(ctx, pairing.Config{
		Addr:        r.addr(r.opts.PairingPort),
		ServiceName: r.opts.ServiceName,
		ClientName:  r.clientName(),
		Identity:    id,
		OnSecret:    func() { r.emit(Event{Kind: EventSecret}) },
		Logger:      r.opts.Logger,
		Observer:    r.opts.Metrics,
	})
	if err != nil {
		r.opts.Metrics.Pairing("failed")
		return fmt.Errorf("%w: %w", ErrPairing, err)
	}

	r.mu.Lock()
	r.pairing = sess
	r.mu.Unlock()

	err = sess.Run(ctx)

	r.mu.Lock()
	r.pairing = nil
	if err == nil {
		r.paired = true
	}
	r.mu.Unlock()

	switch {
	case err == nil:
		r.opts.Metrics.Pairing("paired")
	case errors.Is(err, pairing.ErrBadCode):
		r.opts.Metrics.Pairing("bad_code")
	default:
		r.opts.Metrics.Pairing("failed")
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPairing, err)
	}
	return nil
}

func (r *Remote) clientName() string {
	if r.opts.ClientName != "" {
		return r.opts.ClientName
	}
	if info := r.info.Load(); info != nil && info.Model != "" {
		return info.Model
	}
	return r.opts.ServiceName
}

// SendCode submits the code displayed during pairing. pairing.ErrBadCode
// ends the pairing attempt, and Start returns it wrapped in ErrPairing.
// pairing.ErrInvalidCode leaves the attempt waiting for another code.
func (r *Remote) SendCode(ctx context.Context, code string) error {
	r.mu.Lock()
	sess := r.pairing
	r.mu.Unlock()
	if sess == nil {
		return ErrNotPairing
	}
	return sess.SendCode(ctx, code)
}

// Stop closes the control session, cancels any pending reconnect and
// interrupts a Start in progress. It is safe to call more than once.
func (r *Remote) Stop() {
	r.mu.Lock()
	r.stops++
	close(r.stopped)
	r.stopped = make(chan struct{})
	sess := r.pairing
	r.mu.Unlock()

	r.sup.Stop()
	if sess != nil {
		_ = sess.Close()
	}
}

// Events returns the event stream. Events are dropped, with a warning
// logged, while the buffer is full.
func (r *Remote) Events() <-chan Event {
	return r.events
}

// Certificate returns the identity in use so it can be persisted and passed
// back through Options.Certificate.
func (r *Remote) Certificate() (Certificate, error) {
	r.mu.Lock()
	id := r.ident
	r.mu.Unlock()
	if id == nil {
		return Certificate{}, ErrNoIdentity
	}
	certPEM, keyPEM := id.PEM()
	return Certificate{Cert: certPEM, Key: keyPEM}, nil
}

// State returns what the television has reported on the current
// connection, or the zero State while disconnected.
func (r *Remote) State() State {
	sess, err := r.sup.Current()
	if err != nil {
		return State{}
	}
	return sess.State()
}

// Connected reports whether a control session is established.
func (r *Remote) Connected() bool {
	_, err := r.sup.Current()
	return err == nil
}

// Running reports whether the control session is connected or a reconnect
// is pending. It is false after Stop and after the supervisor gave up.
func (r *Remote) Running() bool {
	return r.sup.Running()
}

func (r *Remote) session() (*remote.Session, error) {
	sess, err := r.sup.Current()
	if err != nil {
		return nil, ErrNotConnected
	}
	return sess, nil
}

func (r *Remote) command(name string, f func(*remote.Session) error) error {
	sess, err := r.session()
	if err == nil {
		err = f(sess)
	}
	r.opts.Metrics.Command(name, err)
	return err
}

// SendKey sends one key event.
func (r *Remote) SendKey(code keycode.KeyCode, dir keycode.Direction) error {
	return r.command("key", func(s *remote.Session) error { return s.SendKey(code, dir) })
}

// SendLongPress holds a key for hold.
func (r *Remote) SendLongPress(ctx context.Context, code keycode.KeyCode, hold time.Duration) error {
	return r.command("long_press", func(s *remote.Session) error { return s.SendLongPress(ctx, code, hold) })
}

// SendPower toggles the television's power.
func (r *Remote) SendPower() error {
	return r.command("power", func(s *remote.Session) error { return s.SendPower() })
}

// SendAppLink opens a deep link, such as https://www.netflix.com/title/80057281.
func (r *Remote) SendAppLink(link string) error {
	return r.command("app_link", func(s *remote.Session) error { return s.SendAppLink(link) })
}

// AdjustVolume presses volume up or down |steps| times.
func (r *Remote) AdjustVolume(steps int) error {
	return r.command("volume", func(s *remote.Session) error { return s.AdjustVolume(steps) })
}

// SendImeStatus reports an application's text-field state.
func (r *Remote) SendImeStatus(appPackage string, status *wire.RemoteTextFieldStatus) error {
	return r.command("ime_status", func(s *remote.Session) error { return s.SendImeStatus(appPackage, status) })
}

func (r *Remote) connect(ctx context.Context) (*remote.Session, error) {
	r.mu.Lock()
	id := r.ident
	r.mu.Unlock()
	return remote.Dial(ctx, remote.Config{
		Addr:       r.addr(r.opts.RemotePort),
		Identity:   id,
		DeviceInfo: r.deviceInfo,
		Emit:       func(e remote.Event) { r.emit(fromRemote(e)) },
		Logger:     r.opts.Logger,
		Observer:   r.opts.Metrics,
	})
}

func (r *Remote) onConnected(*remote.Session) {
	r.opts.Metrics.Connected()
	r.emit(Event{Kind: EventConnected})
}

func (r *Remote) onClosed(cause supervisor.Cause, _ error) {
	r.opts.Metrics.ConnectionClosed(cause.String())
	r.emit(Event{Kind: EventDisconnected, Cause: cause.String()})
}

func (r *Remote) onUnpaired() {
	r.mu.Lock()
	r.paired = false
	r.mu.Unlock()
	r.logger.Warn("television no longer trusts this client; pair again")
	r.emit(Event{Kind: EventUnpaired})
}

func (r *Remote) emit(e Event) {
	select {
	case r.events <- e:
		r.opts.Metrics.Event(string(e.Kind))
	default:
		r.logger.Warn("event dropped, consumer is not keeping up", "kind", e.Kind)
	}
}

func (r *Remote) deviceInfo() remote.DeviceInfo {
	if info := r.info.Load(); info != nil {
		return *info
	}
	return remote.DeviceInfo{}
}

// lookupHost resolves the host's vendor and model in the background, once.
func (r *Remote) lookupHost() {
	if r.opts.DeviceInfo != nil {
		return
	}
	r.lookupOnce.Do(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), hostLookupTimeout)
			defer cancel()
			info, err := r.opts.lookup(ctx)
			if err != nil {
				r.logger.Debug("host lookup failed, using defaults", "error", err)
				return
			}
			r.info.CompareAndSwap(nil, &remote.DeviceInfo{Model: info.Model, Vendor: info.Vendor})
		}()
	})
}

func (r *Remote) addr(port int) string {
	return net.JoinHostPort(r.opts.Host, strconv.Itoa(port))
}

// sleep waits for d on c, or until ctx ends.
func sleep(ctx context.Context, c clock.Clock, d time.Duration) error {
	done := make(chan struct{})
	t := c.AfterFunc(d, func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	}
}
