// Package mcptools exposes the remote as Model Context Protocol tools so an
// assistant can drive the television.
package mcptools

import (
	"context"
	"encoding/json"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name reported to MCP clients.
const ServerName = "atvremote"

// NewServer returns an MCP server carrying every tool in Tools.
func NewServer(r control.Remote, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))
	s.AddTools(Tools(r)...)
	return s
}

// Tools returns the remote's tools: send_key, power, launch_app,
// adjust_volume and get_state.
func Tools(r control.Remote) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("send_key",
				mcp.WithDescription("Press a key on the television remote."),
				mcp.WithString("key", mcp.Required(),
					mcp.Description(`Android key name such as "home", "dpad_up", "KEYCODE_BACK", or a key code number.`)),
				mcp.WithString("direction",
					mcp.Description("short (default), start_long or end_long."),
					mcp.Enum("short", "start_long", "end_long")),
			),
			Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				key, err := req.RequireString("key")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return do(r, control.Action{
					Type:      control.ActionKey,
					Key:       key,
					Direction: req.GetString("direction", ""),
				})
			},
		},
		{
			Tool: mcp.NewTool("power",
				mcp.WithDescription("Toggle the television's power."),
			),
			Handler: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return do(r, control.Action{Type: control.ActionPower})
			},
		},
		{
			Tool: mcp.NewTool("launch_app",
				mcp.WithDescription("Open an app link or deep link on the television."),
				mcp.WithString("url", mcp.Required(),
					mcp.Description("App link, for example https://www.youtube.com or market://launch?id=com.example.")),
			),
			Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				url, err := req.RequireString("url")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return do(r, control.Action{Type: control.ActionAppLink, URL: url})
			},
		},
		{
			Tool: mcp.NewTool("adjust_volume",
				mcp.WithDescription("Raise (positive) or lower (negative) the volume by a number of steps."),
				mcp.WithNumber("steps", mcp.Required(), mcp.Min(-100), mcp.Max(100)),
			),
			Handler: func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				steps, err := req.RequireInt("steps")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				return do(r, control.Action{Type: control.ActionVolume, Steps: steps})
			},
		},
		{
			Tool: mcp.NewTool("get_state",
				mcp.WithDescription("Report power, volume and the foreground app as last reported by the television."),
				mcp.WithReadOnlyHintAnnotation(true),
			),
			Handler: func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				data, err := json.Marshal(stateResult{Connected: r.Connected(), State: r.State()})
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(data)), nil
			},
		},
	}
}

type stateResult struct {
	Connected bool            `json:"connected"`
	State     androidtv.State `json:"state"`
}

// do runs a. Failures are tool errors the model can read, not protocol
// errors.
func do(r control.Remote, a control.Action) (*mcp.CallToolResult, error) {
	if err := control.Do(r, a); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}
