package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxFrameSize bounds a single frame's payload. Devices never send frames
// close to this; anything larger is treated as a corrupt prefix.
const MaxFrameSize = 1 << 20

// AppendFrame appends payload to dst, prefixed with its varint length.
func AppendFrame(dst, payload []byte) []byte {
	dst = protowire.AppendVarint(dst, uint64(len(payload)))
	return append(dst, payload...)
}

// SplitFrame parses the frame at the start of buf. It returns the payload
// and the total number of bytes the frame occupies. ErrIncompleteFrame
// means more bytes are needed.
func SplitFrame(buf []byte) (payload []byte, consumed int, err error) {
	size, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		if n == errCodeTruncated {
			return nil, 0, ErrIncompleteFrame
		}
		return nil, 0, fmt.Errorf("%w: length prefix: %w", ErrFrameCorrupt, protowire.ParseError(n))
	}
	if size > MaxFrameSize {
		return nil, 0, fmt.Errorf("%w: frame of %d bytes exceeds limit %d", ErrFrameCorrupt, size, MaxFrameSize)
	}
	end := n + int(size)
	if len(buf) < end {
		return nil, 0, ErrIncompleteFrame
	}
	return buf[n:end], end, nil
}

// errCodeTruncated is the negative length protowire reports when input
// ends mid-varint.
var errCodeTruncated = func() int {
	_, n := protowire.ConsumeVarint([]byte{0x80})
	return n
}()

// Buffer reassembles frames from a byte stream whose chunk boundaries are
// arbitrary. A Buffer belongs to one connection and is discarded with it.
type Buffer struct {
	data []byte
}

// Write appends a received chunk.
func (b *Buffer) Write(chunk []byte) {
	b.data = append(b.data, chunk...)
}

// Next returns the next complete frame's payload. ok is false when no
// whole frame is buffered yet. The payload is only valid until the next
// call to Write. Once Next returns an error the stream is unrecoverable.
func (b *Buffer) Next() (payload []byte, ok bool, err error) {
	if len(b.data) == 0 {
		return nil, false, nil
	}
	payload, n, err := SplitFrame(b.data)
	if errors.Is(err, ErrIncompleteFrame) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	b.data = b.data[n:]
	if len(b.data) == 0 {
		b.data = nil
	}
	return payload, true, nil
}

// Len returns the number of buffered bytes not yet returned by Next.
func (b *Buffer) Len() int { return len(b.data) }
