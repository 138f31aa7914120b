package wire

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestSplitFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		in          []byte
		wantPayload []byte
		wantN       int
		wantErr     error
	}{
		{name: "empty buffer", in: nil, wantErr: ErrIncompleteFrame},
		{name: "empty frame", in: []byte{0x00}, wantPayload: []byte{}, wantN: 1},
		{name: "whole frame", in: []byte{0x02, 0xAA, 0xBB}, wantPayload: []byte{0xAA, 0xBB}, wantN: 3},
		{name: "trailing bytes", in: []byte{0x01, 0xAA, 0x05}, wantPayload: []byte{0xAA}, wantN: 2},
		{name: "partial payload", in: []byte{0x03, 0xAA}, wantErr: ErrIncompleteFrame},
		{name: "partial prefix", in: []byte{0x80}, wantErr: ErrIncompleteFrame},
		{name: "overlong prefix", in: bytes.Repeat([]byte{0xFF}, 11), wantErr: ErrFrameCorrupt},
		{name: "size above limit", in: []byte{0x81, 0x80, 0x80, 0x01}, wantErr: ErrFrameCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			payload, n, err := SplitFrame(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.wantN {
				t.Errorf("consumed = %d, want %d", n, tt.wantN)
			}
			if !bytes.Equal(payload, tt.wantPayload) {
				t.Errorf("payload = %x, want %x", payload, tt.wantPayload)
			}
		})
	}
}

func TestBuffer_ArbitraryChunking(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		{},
		[]byte("a"),
		bytes.Repeat([]byte{0x42}, 127),
		bytes.Repeat([]byte{0x17}, 128),
		bytes.Repeat([]byte{0x99}, 5000),
	}
	var stream []byte
	for _, p := range payloads {
		stream = AppendFrame(stream, p)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for round := range 50 {
		var buf Buffer
		var got [][]byte
		rest := stream
		for len(rest) > 0 {
			n := 1 + rng.IntN(min(len(rest), 300))
			buf.Write(rest[:n])
			rest = rest[n:]
			for {
				p, ok, err := buf.Next()
				if err != nil {
					t.Fatalf("round %d: Next: %v", round, err)
				}
				if !ok {
					break
				}
				got = append(got, append([]byte{}, p...))
			}
		}
		if len(got) != len(payloads) {
			t.Fatalf("round %d: got %d frames, want %d", round, len(got), len(payloads))
		}
		for i := range payloads {
			if !bytes.Equal(got[i], payloads[i]) {
				t.Fatalf("round %d: frame %d mismatch", round, i)
			}
		}
		if buf.Len() != 0 {
			t.Errorf("round %d: %d bytes left over", round, buf.Len())
		}
	}
}

func TestBuffer_KeepsRemainder(t *testing.T) {
	t.Parallel()

	var buf Buffer
	buf.Write([]byte{0x01, 0xAA, 0x02, 0xBB})

	p, ok, err := buf.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %x, %v, %v", p, ok, err)
	}
	if !bytes.Equal(p, []byte{0xAA}) {
		t.Errorf("payload = %x, want aa", p)
	}

	if _, ok, _ := buf.Next(); ok {
		t.Fatal("second frame should be incomplete")
	}
	if buf.Len() != 2 {
		t.Errorf("Len() = %d, want 2", buf.Len())
	}

	buf.Write([]byte{0xCC})
	p, ok, err = buf.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %x, %v, %v", p, ok, err)
	}
	if !bytes.Equal(p, []byte{0xBB, 0xCC}) {
		t.Errorf("payload = %x, want bbcc", p)
	}
}

func TestBuffer_CorruptPrefix(t *testing.T) {
	t.Parallel()

	var buf Buffer
	buf.Write(bytes.Repeat([]byte{0xFF}, 12))
	if _, _, err := buf.Next(); !errors.Is(err, ErrFrameCorrupt) {
		t.Fatalf("err = %v, want ErrFrameCorrupt", err)
	}
}
