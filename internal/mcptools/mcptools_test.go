package mcptools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/control/controltest"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func call(t *testing.T, r control.Remote, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var tool *server.ServerTool
	for _, st := range Tools(r) {
		if st.Tool.Name == name {
			tool = &st
		}
	}
	if tool == nil {
		t.Fatalf("no tool %q", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %d items, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestTools_Names(t *testing.T) {
	t.Parallel()

	var got []string
	for _, st := range Tools(&controltest.Remote{}) {
		got = append(got, st.Tool.Name)
	}
	want := []string{"send_key", "power", "launch_app", "adjust_volume", "get_state"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tools mismatch (-want +got):\n%s", diff)
	}
}

func TestTools_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tool string
		args map[string]any
		want []string
	}{
		{"send_key", map[string]any{"key": "home"}, []string{"key KEYCODE_HOME SHORT"}},
		{"send_key", map[string]any{"key": "dpad_center", "direction": "end_long"}, []string{"key KEYCODE_DPAD_CENTER END_LONG"}},
		{"power", nil, []string{"power"}},
		{"launch_app", map[string]any{"url": "https://www.youtube.com"}, []string{"applink https://www.youtube.com"}},
		{"adjust_volume", map[string]any{"steps": float64(3)}, []string{"volume 3"}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			t.Parallel()
			rem := &controltest.Remote{}
			res := call(t, rem, tt.tool, tt.args)
			if res.IsError {
				t.Fatalf("tool error: %s", text(t, res))
			}
			if got := text(t, res); got != "ok" {
				t.Errorf("result = %q, want ok", got)
			}
			if diff := cmp.Diff(tt.want, rem.Calls()); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTools_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		remote *controltest.Remote
		tool   string
		args   map[string]any
		want   string
	}{
		{"missing key", &controltest.Remote{}, "send_key", map[string]any{}, "key"},
		{"unknown key", &controltest.Remote{}, "send_key", map[string]any{"key": "nope"}, "unknown key"},
		{"missing url", &controltest.Remote{}, "launch_app", nil, "url"},
		{"zero steps", &controltest.Remote{}, "adjust_volume", map[string]any{"steps": float64(0)}, "non-zero"},
		{"disconnected", &controltest.Remote{Err: androidtv.ErrNotConnected}, "power", nil, "not connected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := call(t, tt.remote, tt.tool, tt.args)
			if !res.IsError {
				t.Fatal("IsError = false, want true")
			}
			if got := text(t, res); !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTools_GetState(t *testing.T) {
	t.Parallel()

	rem := &controltest.Remote{StateVal: androidtv.State{Ready: true, Powered: true, CurrentApp: "com.example.tv"}}
	res := call(t, rem, "get_state", nil)

	var got stateResult
	if err := json.Unmarshal([]byte(text(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := stateResult{Connected: true, State: rem.StateVal}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	if s := NewServer(&controltest.Remote{}, "test"); s == nil {
		t.Fatal("NewServer returned nil")
	}
}
