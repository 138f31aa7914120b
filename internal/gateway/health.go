package gateway

import (
	"encoding/json"
	"net/http"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status    string `json:"status"` // "ok" or "degraded"
	Connected bool   `json:"connected"`
}

// handleHealth returns 200 while the remote is connected to the
// television, 503 otherwise.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{Status: "degraded"}
		if g.remote != nil && g.remote.Connected() {
			resp = HealthResponse{Status: "ok", Connected: true}
		}

		w.Header().Set("Content-Type", "application/json")
		if !resp.Connected {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
