// Package main is the entry point for the atvremote CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/louis49/androidtv-remote/internal/config"
	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/core"
	"github.com/louis49/androidtv-remote/internal/metrics"
	"github.com/louis49/androidtv-remote/internal/security"
	"github.com/louis49/androidtv-remote/internal/telemetry"
	"github.com/spf13/cobra"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "atvremote",
		Short:         "Control an Android TV over its remote protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), startCmd(), configCmd(), pairCmd(), sendCmd(), serviceCmd(), mcpCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and compiled modules",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("atvremote %s (commit: %s, built: %s)\n", version, commit, date)
			mods := core.GetModules()
			if len(mods) == 0 {
				fmt.Println("\nNo compiled modules.")
				return
			}
			fmt.Println("\nCompiled modules:")
			for _, mod := range mods {
				fmt.Printf("  %s\n", mod.ID)
			}
		},
	}
}

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start atvremote with all configured modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			return runDaemon(cmd.Context(), cfgPath)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}

// runDaemon loads the configuration, starts every configured module and
// blocks until ctx is done or the process is signalled.
func runDaemon(ctx context.Context, cfgPath string) error {
	d, err := newDaemon(cfgPath)
	if err != nil {
		return err
	}
	defer d.close()

	shutdown, err := telemetry.Setup(ctx, d.telemetryConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			d.logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	return d.app.Run(ctx)
}

// daemon is a loaded configuration with its modules provisioned.
type daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	app    *core.App
	appCtx *core.AppContext
	close  func()
}

func newDaemon(cfgPath string) (*daemon, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	redactor := security.NewRedactor()
	logger, closeLog, err := newLogger(cfg.Log, redactor)
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = defaultDataDir()
	}
	appCtx := core.NewAppContext(logger, dataDir).WithModuleConfigs(cfg.Modules)
	appCtx.RegisterService(control.ServiceMetrics, metrics.New())
	appCtx.RegisterService(control.ServiceRedactor, redactor)

	app := core.NewApp(appCtx)
	if err := app.LoadModules(config.Resolve(cfg)); err != nil {
		closeLog()
		return nil, err
	}
	return &daemon{cfg: cfg, logger: logger, app: app, appCtx: appCtx, close: closeLog}, nil
}

func (d *daemon) telemetryConfig() telemetry.Config {
	tc := d.cfg.Telemetry
	tc.Version = version
	return tc
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		resolved, err := resolveConfigPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			d, err := newDaemon(args[0])
			if err != nil {
				return err
			}
			defer d.close()
			defer d.app.Close()

			ids := config.Resolve(d.cfg)
			fmt.Printf("Configuration OK (%d modules)\n", len(ids))
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	})
	return cmd
}

// resolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/atvremote/atvremote.yaml → ./atvremote.yaml
func resolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "atvremote", "atvremote.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "atvremote", "atvremote.yaml"))
	}

	candidates = append(candidates, "atvremote.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

func defaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "atvremote")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "atvremote", "data")
}

func defaultStorePath() string {
	return filepath.Join(defaultDataDir(), "atvremote.db")
}
