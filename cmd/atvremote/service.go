package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	svc "github.com/kardianos/service"
	"github.com/spf13/cobra"
)

const serviceName = "atvremote"

// program runs the daemon under the platform service manager.
type program struct {
	cfgPath string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// Start implements svc.Interface. It must not block.
func (p *program) Start(s svc.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		err := runDaemon(ctx, p.cfgPath)
		if err != nil {
			if l, lerr := s.Logger(nil); lerr == nil {
				_ = l.Error(err)
			}
		}
		done <- err
	}()
	return nil
}

// Stop implements svc.Interface and waits for the modules to stop.
func (p *program) Stop(svc.Service) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	return <-done
}

func serviceConfig(cfgPath string) *svc.Config {
	args := []string{"service", "run"}
	if cfgPath != "" {
		args = append(args, "--config", cfgPath)
	}
	return &svc.Config{
		Name:        serviceName,
		DisplayName: "Android TV remote",
		Description: "Keeps a connection to an Android TV and exposes it over HTTP.",
		Arguments:   args,
		Option: svc.KeyValue{
			"Restart":   "on-failure",
			"RunAtLoad": true,
			"StartType": "automatic",
		},
	}
}

func serviceCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:       "service <install|uninstall|start|stop|run>",
		Short:     "Manage atvremote as a system service",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"install", "uninstall", "start", "stop", "run"},
		RunE: func(_ *cobra.Command, args []string) error {
			if cfgPath != "" {
				abs, err := filepath.Abs(cfgPath)
				if err != nil {
					return err
				}
				cfgPath = abs
			}
			s, err := svc.New(&program{cfgPath: cfgPath}, serviceConfig(cfgPath))
			if err != nil {
				return err
			}
			return handleServiceCmd(s, args[0])
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to configuration file")
	return cmd
}

func handleServiceCmd(s svc.Service, action string) error {
	switch strings.ToLower(action) {
	case "install":
		return s.Install()
	case "uninstall":
		return s.Uninstall()
	case "start":
		return s.Start()
	case "stop":
		return s.Stop()
	case "run":
		return s.Run()
	default:
		return fmt.Errorf("unknown service command: %s", action)
	}
}
