// Package scheduler is the scheduler.cron module: it sends remote actions
// on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/core"
	"github.com/louis49/androidtv-remote/internal/cron"
	"gopkg.in/yaml.v3"
)

// ErrNoRemote is returned by Start when no module registered a remote.
var ErrNoRemote = errors.New("scheduler.cron: no remote registered")

func init() {
	core.RegisterModule(&Module{})
}

// Module schedules remote actions.
type Module struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	scheduler *cron.Scheduler
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "scheduler.cron",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	return node.Decode(&m.config)
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.appCtx = ctx
	m.logger = ctx.Logger
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Start implements core.Starter. The remote is resolved here so that the
// module providing it has been provisioned.
func (m *Module) Start() error {
	rem, ok := core.ServiceAs[control.Remote](m.appCtx, control.ServiceRemote)
	if !ok {
		return ErrNoRemote
	}

	s := cron.NewScheduler(m.logger)
	for _, j := range m.config.Jobs {
		err := s.RegisterJob(&cron.ActionJob{
			JobName:      j.Name,
			ScheduleExpr: j.Schedule,
			Action:       j.Action,
			Remote:       rem,
			Logger:       m.logger,
		})
		if err != nil {
			return err
		}
	}
	if err := s.Start(); err != nil {
		return err
	}
	m.scheduler = s
	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	if m.scheduler == nil {
		return nil
	}
	return m.scheduler.Stop(ctx)
}
