package scheduler

import (
	"errors"
	"fmt"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/cron"
)

// Config is the scheduler.cron module configuration.
type Config struct {
	Jobs []JobConfig `yaml:"jobs"`
}

// JobConfig is one scheduled action:
//
//	- name: wake
//	  schedule: "0 7 * * 1-5"
//	  action: power
type JobConfig struct {
	Name           string `yaml:"name"`
	Schedule       string `yaml:"schedule"`
	control.Action `yaml:",inline"`
}

func (c *Config) validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c.Jobs))
	for i, j := range c.Jobs {
		if j.Name == "" {
			errs = append(errs, fmt.Errorf("scheduler.cron: jobs[%d]: name is required", i))
			continue
		}
		if _, dup := seen[j.Name]; dup {
			errs = append(errs, fmt.Errorf("scheduler.cron: duplicate job name %q", j.Name))
		}
		seen[j.Name] = struct{}{}
		if err := cron.ValidateSchedule(j.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.cron: job %q: %w", j.Name, err))
		}
		if err := j.Action.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.cron: job %q: %w", j.Name, err))
		}
	}
	return errors.Join(errs...)
}
