package wire

import (
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field encoding follows proto3: scalar zero values are omitted, while
// present sub-messages are always written, even when empty, so variant
// presence survives a round trip.

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// body is implemented by every schema type that can appear as a nested
// message.
type body interface {
	appendTo(b []byte) []byte
	unmarshal(b []byte) error
}

func appendMessage(b []byte, num protowire.Number, m body) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendTo(nil))
}

// fieldReader walks the fields of one encoded message. The first error
// sticks and ends iteration.
type fieldReader struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
	err error
}

func newFieldReader(b []byte) *fieldReader {
	return &fieldReader{buf: b}
}

func (r *fieldReader) next() bool {
	if r.err != nil || len(r.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return false
	}
	r.buf = r.buf[n:]
	r.num, r.typ = num, typ
	return true
}

func (r *fieldReader) varint() uint64 {
	if r.typ != protowire.VarintType {
		r.failType("varint")
		return 0
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *fieldReader) int32() int32   { return int32(r.varint()) }
func (r *fieldReader) uint32() uint32 { return uint32(r.varint()) }
func (r *fieldReader) bool() bool     { return protowire.DecodeBool(r.varint()) }

func (r *fieldReader) bytes() []byte {
	if r.typ != protowire.BytesType {
		r.failType("bytes")
		return nil
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return nil
	}
	r.buf = r.buf[n:]
	return v
}

func (r *fieldReader) string() string { return string(r.bytes()) }

// copyBytes returns a copy, since the underlying buffer is reused by the
// stream reassembler.
func (r *fieldReader) copyBytes() []byte {
	v := r.bytes()
	if len(v) == 0 {
		return nil
	}
	return append([]byte(nil), v...)
}

func (r *fieldReader) message(m body) {
	b := r.bytes()
	if r.err != nil {
		return
	}
	if err := m.unmarshal(b); err != nil {
		r.err = err
	}
}

// skip discards an unknown field.
func (r *fieldReader) skip() {
	n := protowire.ConsumeFieldValue(r.num, r.typ, r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return
	}
	r.buf = r.buf[n:]
}

func (r *fieldReader) failType(want string) {
	r.fail(fmt.Errorf("field %d has wire type %d, want %s", r.num, r.typ, want))
}

func (r *fieldReader) fail(err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %w", ErrFrameCorrupt, err)
	}
}

func checkString(field, v string) error {
	if !utf8.ValidString(v) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrSchemaViolation, field)
	}
	return nil
}
