package main

import (
	"errors"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/core"
	"github.com/louis49/androidtv-remote/internal/mcptools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var errNoRemoteModule = errors.New("mcp: configuration has no androidtv.remote module")

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the remote as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			d, err := newDaemon(cfgPath)
			if err != nil {
				return err
			}
			defer d.close()

			rem, ok := core.ServiceAs[control.Remote](d.appCtx, control.ServiceRemote)
			if !ok {
				d.app.Close()
				return errNoRemoteModule
			}
			if err := d.app.Start(); err != nil {
				return err
			}
			defer d.app.Stop()

			// stdout carries the protocol; logs stay on stderr.
			return server.ServeStdio(mcptools.NewServer(rem, version))
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}
