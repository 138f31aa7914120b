// Package wire implements the pairing and remote message schemas spoken by
// Android TV devices, and the varint length-prefixed framing that carries
// them over TLS.
package wire

import "errors"

// Sentinel errors for the wire package.
var (
	// ErrSchemaViolation is returned by Encode when an outbound message does
	// not satisfy its schema.
	ErrSchemaViolation = errors.New("wire: schema violation")

	// ErrFrameCorrupt is returned by Decode when a frame's length prefix or
	// payload cannot be parsed.
	ErrFrameCorrupt = errors.New("wire: frame corrupt")

	// ErrIncompleteFrame means the buffer does not yet hold a whole frame.
	ErrIncompleteFrame = errors.New("wire: incomplete frame")
)
