package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/store"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"github.com/spf13/cobra"
)

var errNotReady = errors.New("television did not become ready")

// sendFlags are shared by the send subcommands.
type sendFlags struct {
	host      string
	storePath string
	timeout   time.Duration
}

func sendCmd() *cobra.Command {
	var f sendFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one command to a paired television",
	}
	cmd.PersistentFlags().StringVar(&f.host, "host", "", "Television address")
	cmd.PersistentFlags().StringVar(&f.storePath, "store", defaultStorePath(), "Credential database")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 15*time.Second, "Give up after this long")
	_ = cmd.MarkPersistentFlagRequired("host")

	var direction string
	key := &cobra.Command{
		Use:   "key <name>",
		Short: "Press a key (home, back, dpad_up, KEYCODE_MUTE, ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.send(cmd.Context(), control.Action{Type: control.ActionKey, Key: args[0], Direction: direction})
		},
	}
	key.Flags().StringVar(&direction, "direction", "short", "short, start_long or end_long")

	power := &cobra.Command{
		Use:   "power",
		Short: "Toggle power",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.send(cmd.Context(), control.Action{Type: control.ActionPower})
		},
	}

	applink := &cobra.Command{
		Use:   "applink <url>",
		Short: "Open an app link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.send(cmd.Context(), control.Action{Type: control.ActionAppLink, URL: args[0]})
		},
	}

	volume := &cobra.Command{
		Use:   "volume <steps>",
		Short: "Raise or lower the volume by a number of steps",
		Long:  "Raise or lower the volume by a number of steps. Put -- before a negative count: send volume -- -3.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("steps: %w", err)
			}
			return f.send(cmd.Context(), control.Action{Type: control.ActionVolume, Steps: steps})
		},
	}

	cmd.AddCommand(key, power, applink, volume)
	return cmd
}

func (f sendFlags) send(ctx context.Context, a control.Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	st, err := store.Open(ctx, f.storePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	cred, err := st.Load(ctx, f.host)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s is not paired, run atvremote pair --host %s first", f.host, f.host)
	}
	if err != nil {
		return err
	}

	r, err := androidtv.New(androidtv.Options{
		Host:        f.host,
		Certificate: &androidtv.Certificate{Cert: cred.CertPEM, Key: cred.KeyPEM},
		Logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})
	if err != nil {
		return err
	}
	defer r.Stop()

	if err := r.Start(ctx); err != nil {
		return err
	}
	if err := waitReady(ctx, r); err != nil {
		return err
	}
	return control.Do(r, a)
}

// waitReady blocks until the television has finished configuring the
// session.
func waitReady(ctx context.Context, r *androidtv.Remote) error {
	if r.State().Ready {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", errNotReady, ctx.Err())
		case e := <-r.Events():
			switch e.Kind {
			case androidtv.EventReady:
				return nil
			case androidtv.EventUnpaired:
				return androidtv.ErrUnpaired
			}
		}
	}
}
