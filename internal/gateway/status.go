package gateway

import (
	"net/http"
	"time"

	"github.com/louis49/androidtv-remote/pkg/androidtv"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime      int64            `json:"uptime_seconds"`
	Connected   bool             `json:"connected"`
	State       androidtv.State  `json:"state"`
	Counters    CountersSnapshot `json:"counters"`
	Subscribers int              `json:"subscribers"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime:   int64(time.Since(g.startedAt).Seconds()),
			Counters: g.counters.Snapshot(),
		}
		if g.remote != nil {
			resp.Connected = g.remote.Connected()
			resp.State = g.remote.State()
		}
		if g.hub != nil {
			resp.Subscribers = g.hub.Len()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
