package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/louis49/androidtv-remote/internal/store"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var codePattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// codePrompt asks the user for the code the television displays.
type codePrompt func(ctx context.Context) (string, error)

func pairCmd() *cobra.Command {
	var (
		host      string
		storePath string
		name      string
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pair with a television and store the certificate it trusts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			st, err := store.Open(ctx, storePath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := pair(ctx, st, androidtv.Options{Host: host, ServiceName: name, Logger: logger}, promptCode); err != nil {
				return err
			}
			fmt.Printf("Paired with %s, certificate saved to %s\n", host, storePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Television address")
	cmd.Flags().StringVar(&storePath, "store", defaultStorePath(), "Credential database")
	cmd.Flags().StringVar(&name, "name", androidtv.DefaultServiceName, "Name shown on the television")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up after this long")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

// pair runs pairing against opts.Host, answering the code request with
// prompt, and saves the resulting certificate once the control session
// connects.
func pair(ctx context.Context, st *store.Store, opts androidtv.Options, prompt codePrompt) error {
	r, err := androidtv.New(opts)
	if err != nil {
		return err
	}
	defer r.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return r.Start(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case e := <-r.Events():
				if e.Kind != androidtv.EventSecret {
					continue
				}
				code, err := prompt(gctx)
				if err != nil {
					return err
				}
				if err := r.SendCode(gctx, code); err != nil {
					return err
				}
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	cert, err := r.Certificate()
	if err != nil {
		return err
	}
	return st.Save(context.WithoutCancel(ctx), store.Credential{
		Host:     opts.Host,
		CertPEM:  cert.Cert,
		KeyPEM:   cert.Key,
		PairedAt: time.Now().UTC(),
	})
}

func validateCode(s string) error {
	if !codePattern.MatchString(s) {
		return errors.New("enter the 6 characters shown on the television")
	}
	return nil
}

func promptCode(ctx context.Context) (string, error) {
	var code string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Pairing code").
			Description("Enter the code displayed on the television.").
			CharLimit(6).
			Validate(validateCode).
			Value(&code),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return code, nil
}
