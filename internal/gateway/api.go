package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/louis49/androidtv-remote/internal/control"
	"github.com/louis49/androidtv-remote/internal/pairing"
	"github.com/louis49/androidtv-remote/internal/remote"
	"github.com/louis49/androidtv-remote/pkg/androidtv"
)

const maxBodyBytes = 1 << 16

var errNoEvents = errors.New("gateway: event stream unavailable")

type errorResponse struct {
	Error string `json:"error"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps a remote error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, control.ErrInvalidAction),
		errors.Is(err, remote.ErrInvalidStep),
		errors.Is(err, pairing.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, pairing.ErrBadCode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, androidtv.ErrNotPairing),
		errors.Is(err, pairing.ErrNotAwaitingSecret):
		return http.StatusConflict
	case errors.Is(err, androidtv.ErrNotConnected):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// available writes 503 and reports false when no remote is registered.
func (g *Gateway) available(w http.ResponseWriter) bool {
	if g.remote == nil {
		writeError(w, http.StatusServiceUnavailable, androidtv.ErrNotConnected)
		return false
	}
	return true
}

// command runs a for the remote and writes the outcome.
func (g *Gateway) command(w http.ResponseWriter, a control.Action) {
	if !g.available(w) {
		return
	}
	err := control.Do(g.remote, a)
	g.counters.RecordCommand(err)
	if err != nil {
		g.logger.Debug("command failed", "action", a.Type, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (g *Gateway) handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !g.available(w) {
			return
		}
		writeJSON(w, http.StatusOK, g.remote.State())
	}
}

// keyRequest is the body of POST /api/keys.
type keyRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

func (g *Gateway) handleKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req keyRequest
		if !decode(w, r, &req) {
			return
		}
		g.command(w, control.Action{Type: control.ActionKey, Key: req.Key, Direction: req.Direction})
	}
}

func (g *Gateway) handlePower() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		g.command(w, control.Action{Type: control.ActionPower})
	}
}

// appLinkRequest is the body of POST /api/applink.
type appLinkRequest struct {
	URL string `json:"url"`
}

func (g *Gateway) handleAppLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appLinkRequest
		if !decode(w, r, &req) {
			return
		}
		g.command(w, control.Action{Type: control.ActionAppLink, URL: req.URL})
	}
}

// volumeRequest is the body of POST /api/volume.
type volumeRequest struct {
	Steps int `json:"steps"`
}

func (g *Gateway) handleVolume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req volumeRequest
		if !decode(w, r, &req) {
			return
		}
		g.command(w, control.Action{Type: control.ActionVolume, Steps: req.Steps})
	}
}

// codeRequest is the body of POST /api/pairing/code.
type codeRequest struct {
	Code string `json:"code"`
}

func (g *Gateway) handlePairingCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeRequest
		if !decode(w, r, &req) || !g.available(w) {
			return
		}
		if err := g.remote.SendCode(r.Context(), req.Code); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}
