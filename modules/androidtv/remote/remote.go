// Package remote is the androidtv.remote module. It owns the connection to
// one television: it loads the paired certificate from the credential
// store, pairs when there is none, and republishes the television's events
// to the other modules.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/core"
	"github.com/louis49/androidtv-remote/internal/metrics"
	"github.com/louis49/androidtv-remote/internal/store"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Module{})
}

// device is the part of *androidtv.Remote the module drives.
type device interface {
	control.Remote
	Start(ctx context.Context) error
	Stop()
	Running() bool
	Events() <-chan androidtv.Event
	Certificate() (androidtv.Certificate, error)
}

// Module connects to the configured television.
type Module struct {
	config Config
	logger *slog.Logger
	store  *store.Store
	hub    *control.Hub
	dev    device

	// newDevice is replaced in tests.
	newDevice func(androidtv.Options) (device, error)

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	saved bool
	// starting is set while run owns dev.Start; again asks that run to go
	// round once more before it exits.
	starting bool
	again    bool
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "androidtv.remote",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return err
	}
	m.config.defaults()
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Provision implements core.Provisioner. It opens the credential store,
// creates the remote, and registers it with the event hub.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	if err := m.config.validate(); err != nil {
		return err
	}
	m.logger = ctx.Logger
	if m.newDevice == nil {
		m.newDevice = func(opts androidtv.Options) (device, error) { return androidtv.New(opts) }
	}

	path := m.config.StorePath
	if path == "" {
		path = filepath.Join(ctx.DataDir, "atvremote.db")
	}
	openCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, err := store.Open(openCtx, path)
	if err != nil {
		return err
	}

	opts := androidtv.Options{
		Host:           m.config.Host,
		PairingPort:    m.config.PairingPort,
		RemotePort:     m.config.RemotePort,
		ServiceName:    m.config.ServiceName,
		ClientName:     m.config.ClientName,
		ReconnectDelay: m.config.ReconnectDelay,
		EventBuffer:    m.config.EventBuffer,
		Logger:         m.logger,
	}
	if mt, ok := core.ServiceAs[*metrics.Metrics](ctx, control.ServiceMetrics); ok {
		opts.Metrics = mt
	}

	cred, err := st.Load(openCtx, m.config.Host)
	switch {
	case err == nil:
		opts.Certificate = &androidtv.Certificate{Cert: cred.CertPEM, Key: cred.KeyPEM}
		m.saved = true
		m.logger.Info("loaded paired certificate", "host", cred.Host, "paired_at", cred.PairedAt)
	case errors.Is(err, store.ErrNotFound):
		m.logger.Info("no certificate for host, pairing will be required", "host", m.config.Host)
	default:
		_ = st.Close()
		return err
	}

	dev, err := m.newDevice(opts)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("androidtv.remote: %w", err)
	}

	m.store, m.dev = st, dev
	m.hub = control.NewHub(m.logger)
	ctx.RegisterService(control.ServiceRemote, control.Remote(dev))
	ctx.RegisterService(control.ServiceEvents, m.hub)
	return nil
}

// Start implements core.Starter. Pairing and connecting run in the
// background; Start itself does not wait for the television.
func (m *Module) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.mu.Lock()
	m.starting, m.again = false, false
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.pump(ctx)
	}()
	m.startRun(ctx)
	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.dev != nil {
		m.dev.Stop()
	}
	m.wg.Wait()
	if m.hub != nil {
		m.hub.Close()
	}
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// startRun starts run unless one is already active, in which case that one
// starts the remote once more before exiting.
func (m *Module) startRun(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if m.starting {
		m.again = true
		return
	}
	m.starting = true
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(ctx)
	}()
}

// finish ends run unless startRun asked for another round.
func (m *Module) finish() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.again {
		m.again = false
		return false
	}
	m.starting = false
	return true
}

// run starts the remote, starting again after RetryDelay whenever it ends
// up neither connected nor retrying on its own. A television that stopped
// trusting the certificate needs a new pairing, which the unpaired event
// asks for.
func (m *Module) run(ctx context.Context) {
	for {
		err := m.dev.Start(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err == nil:
			if m.finish() {
				return
			}
			continue
		case errors.Is(err, androidtv.ErrUnpaired):
			m.logger.Warn("television no longer trusts this client", "error", err)
			if m.finish() {
				return
			}
			continue
		case errors.Is(err, androidtv.ErrPairing):
			m.logger.Warn("pairing failed", "error", err)
		case m.dev.Running():
			m.logger.Warn("television unreachable, retrying", "error", err)
			if m.finish() {
				return
			}
			continue
		default:
			m.logger.Warn("connection failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.config.RetryDelay):
		}
	}
}

// pump republishes the remote's events and keeps the credential store in
// step with the pairing state.
func (m *Module) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-m.dev.Events():
			m.handle(ctx, e)
			m.hub.Publish(e)
		}
	}
}

func (m *Module) handle(ctx context.Context, e androidtv.Event) {
	switch e.Kind {
	case androidtv.EventSecret:
		m.logger.Info("television is showing a pairing code; submit it with POST /api/pairing/code")

	case androidtv.EventConnected:
		m.mu.Lock()
		saved := m.saved
		m.mu.Unlock()
		if saved {
			return
		}
		if err := m.saveCertificate(ctx); err != nil {
			m.logger.Error("saving certificate failed", "error", err)
			return
		}
		m.mu.Lock()
		m.saved = true
		m.mu.Unlock()

	case androidtv.EventUnpaired:
		m.mu.Lock()
		m.saved = false
		m.mu.Unlock()
		if err := m.store.Delete(ctx, m.config.Host); err != nil {
			m.logger.Error("deleting certificate failed", "error", err)
		}
		m.startRun(ctx)
	}
}

func (m *Module) saveCertificate(ctx context.Context) error {
	cert, err := m.dev.Certificate()
	if err != nil {
		return err
	}
	return m.store.Save(ctx, store.Credential{
		Host:    m.config.Host,
		CertPEM: cert.Cert,
		KeyPEM:  cert.Key,
	})
}
