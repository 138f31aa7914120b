package wire

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is a top-level envelope: *PairingMessage or *RemoteMessage.
type Message interface {
	body
	slog.LogValuer
	Kind() string
	Validate() error
}

// FrameObserver is notified of every frame a codec encodes or decodes.
type FrameObserver interface {
	FrameSent(schema, kind string)
	FrameReceived(schema, kind string)
}

// Codec encodes and decodes framed messages of one schema. Codecs are
// stateless apart from logging and may be shared by goroutines.
type Codec struct {
	schema   string
	logger   *slog.Logger
	observer FrameObserver
	quiet    map[string]bool
}

// NewPairingCodec returns the codec for the pairing port.
func NewPairingCodec(logger *slog.Logger, observer FrameObserver) *Codec {
	return newCodec("pairing", logger, observer, nil)
}

// NewRemoteCodec returns the codec for the remote port. Keepalive traffic
// is not logged.
func NewRemoteCodec(logger *slog.Logger, observer FrameObserver) *Codec {
	return newCodec("remote", logger, observer, map[string]bool{
		"remote_ping_request":  true,
		"remote_ping_response": true,
	})
}

func newCodec(schema string, logger *slog.Logger, observer FrameObserver, quiet map[string]bool) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{
		schema:   schema,
		logger:   logger.With("schema", schema),
		observer: observer,
		quiet:    quiet,
	}
}

// Encode validates m and returns it as a length-prefixed frame.
func (c *Codec) Encode(m Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	frame := AppendFrame(nil, m.appendTo(nil))
	c.trace("send", m)
	if c.observer != nil {
		c.observer.FrameSent(c.schema, m.Kind())
	}
	return frame, nil
}

// Decode parses the frame at the start of buf into m and returns the number
// of bytes consumed.
func (c *Codec) Decode(buf []byte, m Message) (int, error) {
	payload, n, err := SplitFrame(buf)
	if err != nil {
		return 0, err
	}
	if err := c.Unmarshal(payload, m); err != nil {
		return 0, err
	}
	return n, nil
}

// Unmarshal parses a frame payload already split by a Buffer.
func (c *Codec) Unmarshal(payload []byte, m Message) error {
	if err := m.unmarshal(payload); err != nil {
		return fmt.Errorf("decoding %s message: %w", c.schema, err)
	}
	c.trace("receive", m)
	if c.observer != nil {
		c.observer.FrameReceived(c.schema, m.Kind())
	}
	return nil
}

func (c *Codec) trace(dir string, m Message) {
	if c.quiet[m.Kind()] || !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	c.logger.Debug(dir, "message", m)
}
