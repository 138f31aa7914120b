package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/louis49/androidtv-remote/internal/control"
)

// ActionJob sends one remote action on every tick.
type ActionJob struct {
	JobName      string
	ScheduleExpr string
	Action       control.Action
	Remote       control.Remote
	Logger       *slog.Logger
}

// Compile-time interface check.
var _ Job = (*ActionJob)(nil)

// Name implements Job.
func (j *ActionJob) Name() string { return j.JobName }

// Schedule implements Job.
func (j *ActionJob) Schedule() string { return j.ScheduleExpr }

// Run sends the action. A disconnected remote fails the tick; the next one
// tries again.
func (j *ActionJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: %s cancelled: %w", j.JobName, ctx.Err())
	}
	if err := control.Do(j.Remote, j.Action); err != nil {
		return fmt.Errorf("cron: %s: %w", j.JobName, err)
	}
	if j.Logger != nil {
		j.Logger.Info("cron: action sent", "job", j.JobName, "action", j.Action.Type)
	}
	return nil
}
