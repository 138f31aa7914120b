package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const eventWriteTimeout = 5 * time.Second

// handleEvents upgrades to a WebSocket and streams every remote event as
// a JSON text message until either side closes.
func (g *Gateway) handleEvents(w http.ResponseWriter, r *http.Request) {
	if g.hub == nil {
		writeError(w, http.StatusServiceUnavailable, errNoEvents)
		return
	}

	// The server write timeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		g.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close(websocket.StatusInternalError, "unexpected close")
	}()

	g.counters.streamOpened()
	defer g.counters.streamClosed()
	events, cancel := g.hub.Subscribe()
	defer cancel()

	// Clients only listen; CloseRead handles their control frames and
	// cancels ctx when they go away.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := g.writeEvent(ctx, conn, e); err != nil {
				g.logger.Debug("event stream closed", "error", err)
				return
			}
		}
	}
}

func (g *Gateway) writeEvent(ctx context.Context, conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
