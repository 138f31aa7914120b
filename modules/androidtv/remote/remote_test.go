package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/control/controltest"
	"github.com/louis49/androidtv-remote/internal/core"
	"github.com/louis49/androidtv-remote/internal/store"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"gopkg.in/yaml.v3"
)

type fakeDevice struct {
	controltest.Remote
	opts    androidtv.Options
	events  chan androidtv.Event
	starts  atomic.Int32
	started chan struct{}
	startFn func(context.Context) error
	running atomic.Bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		events:  make(chan androidtv.Event, 8),
		started: make(chan struct{}, 8),
	}
}

func (d *fakeDevice) Start(ctx context.Context) error {
	d.starts.Add(1)
	d.started <- struct{}{}
	if d.startFn != nil {
		return d.startFn(ctx)
	}
	d.running.Store(true)
	return nil
}

func (d *fakeDevice) Stop()                          { d.running.Store(false) }
func (d *fakeDevice) Running() bool                  { return d.running.Load() }
func (d *fakeDevice) Events() <-chan androidtv.Event { return d.events }

func (d *fakeDevice) Certificate() (androidtv.Certificate, error) {
	return androidtv.Certificate{Cert: []byte("cert"), Key: []byte("key")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func provision(t *testing.T, dev *fakeDevice, src string) (*Module, *core.AppContext) {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatal(err)
	}
	m := &Module{newDevice: func(opts androidtv.Options) (device, error) {
		dev.opts = opts
		return dev, nil
	}}
	if err := m.Configure(doc.Content[0]); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	appCtx := core.NewAppContext(discardLogger(), t.TempDir())
	if err := m.Provision(appCtx); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	return m, appCtx
}

func waitStart(t *testing.T, dev *fakeDevice) {
	t.Helper()
	select {
	case <-dev.started:
	case <-time.After(5 * time.Second):
		t.Fatal("remote never started")
	}
}

func TestModule_ValidateRequiresHost(t *testing.T) {
	t.Parallel()

	m := &Module{}
	if err := m.Validate(); err == nil {
		t.Error("Validate accepted a config without host")
	}
}

func TestModule_RegistersServices(t *testing.T) {
	t.Parallel()

	dev := newFakeDevice()
	m, appCtx := provision(t, dev, "host: 192.168.1.20\nremote_port: 7000\n")
	defer func() { _ = m.Stop(context.Background()) }()

	if dev.opts.Host != "192.168.1.20" || dev.opts.RemotePort != 7000 {
		t.Errorf("options = %+v", dev.opts)
	}
	if dev.opts.Certificate != nil {
		t.Error("certificate passed although none is stored")
	}
	if _, ok := core.ServiceAs[control.Remote](appCtx, control.ServiceRemote); !ok {
		t.Error("remote service not registered")
	}
	if _, ok := core.ServiceAs[*control.Hub](appCtx, control.ServiceEvents); !ok {
		t.Error("event hub not registered")
	}
}

func TestModule_SavesAndDeletesCertificate(t *testing.T) {
	t.Parallel()

	dev := newFakeDevice()
	path := filepath.Join(t.TempDir(), "creds.db")
	m, appCtx := provision(t, dev, "host: tv.local\nretry_delay: 10ms\nstore_path: "+path+"\n")
	hub, _ := core.ServiceAs[*control.Hub](appCtx, control.ServiceEvents)
	events, cancel := hub.Subscribe()
	defer cancel()

	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = m.Stop(context.Background()) }()
	waitStart(t, dev)

	dev.events <- androidtv.Event{Kind: androidtv.EventConnected}
	if e := <-events; e.Kind != androidtv.EventConnected {
		t.Fatalf("hub event = %s", e.Kind)
	}
	cred, err := m.store.Load(context.Background(), "tv.local")
	if err != nil {
		t.Fatalf("certificate not saved: %v", err)
	}
	if string(cred.CertPEM) != "cert" || string(cred.KeyPEM) != "key" {
		t.Errorf("saved credential = %+v", cred)
	}

	dev.events <- androidtv.Event{Kind: androidtv.EventUnpaired}
	<-events
	if _, err := m.store.Load(context.Background(), "tv.local"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Load after unpaired = %v, want ErrNotFound", err)
	}
	waitStart(t, dev)
}

func TestModule_LoadsStoredCertificate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "creds.db")
	st, err := store.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(context.Background(), store.Credential{Host: "tv.local", CertPEM: []byte("c"), KeyPEM: []byte("k")}); err != nil {
		t.Fatal(err)
	}
	_ = st.Close()

	dev := newFakeDevice()
	m, _ := provision(t, dev, "host: tv.local\nstore_path: "+path+"\n")
	defer func() { _ = m.Stop(context.Background()) }()

	if dev.opts.Certificate == nil || string(dev.opts.Certificate.Cert) != "c" {
		t.Errorf("certificate = %+v, want stored one", dev.opts.Certificate)
	}
}

func TestModule_RetriesFailedPairing(t *testing.T) {
	t.Parallel()

	dev := newFakeDevice()
	dev.startFn = func(context.Context) error {
		if dev.starts.Load() == 1 {
			return androidtv.ErrPairing
		}
		return nil
	}
	m, _ := provision(t, dev, "host: tv.local\nretry_delay: 10ms\n")
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = m.Stop(context.Background()) }()

	waitStart(t, dev)
	waitStart(t, dev)
}

func TestModule_UnpairedOnFirstStartRestartsOnce(t *testing.T) {
	t.Parallel()

	var active, maxActive atomic.Int32
	dev := newFakeDevice()
	dev.startFn = func(context.Context) error {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			seen := maxActive.Load()
			if n <= seen || maxActive.CompareAndSwap(seen, n) {
				break
			}
		}
		if dev.starts.Load() == 1 {
			dev.events <- androidtv.Event{Kind: androidtv.EventUnpaired}
			// Give the event time to reach the module before Start returns.
			time.Sleep(20 * time.Millisecond)
			return androidtv.ErrUnpaired
		}
		dev.running.Store(true)
		return nil
	}
	m, appCtx := provision(t, dev, "host: tv.local\nretry_delay: 10ms\n")
	hub, _ := core.ServiceAs[*control.Hub](appCtx, control.ServiceEvents)
	events, cancel := hub.Subscribe()
	defer cancel()

	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitStart(t, dev)
	if e := <-events; e.Kind != androidtv.EventUnpaired {
		t.Fatalf("hub event = %s, want unpaired", e.Kind)
	}
	waitStart(t, dev)

	// Leave time for a duplicate restart to show up.
	time.Sleep(50 * time.Millisecond)
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := dev.starts.Load(); got != 2 {
		t.Errorf("Start calls = %d, want 2", got)
	}
	if got := maxActive.Load(); got != 1 {
		t.Errorf("concurrent Start calls = %d, want 1", got)
	}
}
