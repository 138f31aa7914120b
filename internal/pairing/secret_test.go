package pairing

import (
	"bytes"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
)

func mustKey(t *testing.T, modulusHex string, e int) *rsa.PublicKey {
	t.Helper()
	n, ok := new(big.Int).SetString(modulusHex, 16)
	if !ok {
		t.Fatalf("bad modulus %q", modulusHex)
	}
	return &rsa.PublicKey{N: n, E: e}
}

const (
	clientModulus = "C1F3A9D2E4B56078192A3B4C5D6E7F8091A2B3C4D5E6F708192A3B4C5D6E7F81" +
		"92A3B4C5D6E7F8091A2B3C4D5E6F708192A3B4C5D6E7F8091A2B3C4D5E6F7081"
	serverModulus = "D7E8F9A0B1C2D3E4F5061728394A5B6C7D8E9FA0B1C2D3E4F5061728394A5B6C" +
		"7D8E9FA0B1C2D3E4F5061728394A5B6C7D8E9FA0B1C2D3E4F5061728394A5B6D"
)

// referenceDigest recomputes the digest from uppercase hex strings, the way
// the television documents it, independent of Secret's byte handling.
func referenceDigest(t *testing.T, client, server *rsa.PublicKey, suffix string) []byte {
	t.Helper()
	expHex := func(e int) string {
		s := fmt.Sprintf("%X", e)
		if len(s)%2 == 1 {
			s = "0" + s
		}
		return s
	}
	all := fmt.Sprintf("%X%s%X%s%s", client.N, expHex(client.E), server.N, expHex(server.E), strings.ToUpper(suffix))
	raw, err := hex.DecodeString(all)
	if err != nil {
		t.Fatalf("reference hex: %v", err)
	}
	sum := sha256.Sum256(raw)
	return sum[:]
}

// validCode returns the code the television would display for suffix.
func validCode(t *testing.T, client, server *rsa.PublicKey, suffix string) string {
	t.Helper()
	return fmt.Sprintf("%02X%s", referenceDigest(t, client, server, suffix)[0], suffix)
}

func TestSecret_AcceptsMatchingCode(t *testing.T) {
	t.Parallel()

	client := mustKey(t, clientModulus, 65537)
	server := mustKey(t, serverModulus, 65537)

	code := validCode(t, client, server, "2B")
	got, err := Secret(client, server, code)
	if err != nil {
		t.Fatalf("Secret(%q): %v", code, err)
	}
	want := referenceDigest(t, client, server, "2B")
	if !bytes.Equal(got, want) {
		t.Errorf("Secret = %x, want %x", got, want)
	}

	again, err := Secret(client, server, strings.ToLower(code))
	if err != nil {
		t.Fatalf("lowercase code rejected: %v", err)
	}
	if !bytes.Equal(again, got) {
		t.Error("Secret is not deterministic across case")
	}
}

func TestSecret_KnownVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		serverExp int
		code      string
		digest    string
		err       error
	}{
		{"checksum mismatch", 65537, "1A2B", "", ErrBadCode},
		{"four digits", 65537, "7B2B", "7be6acfd0b78ad9b9a179ed222389ffd7242aade18f0de644f29dae1d7b5e4d5", nil},
		{"six digits", 65537, "8F1A2B", "8fe524c076629f3ae3c4366a6d3d26a7164b576e5882d5d4ea82b917671ef900", nil},
		{"one byte exponent", 3, "9F1A2B", "9f1b226ad10c65147b26a765980112401a3c403513b80d5a55002df8b1b59921", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := mustKey(t, clientModulus, 65537)
			server := mustKey(t, serverModulus, tt.serverExp)

			got, err := Secret(client, server, tt.code)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Secret(%q) error = %v, want %v", tt.code, err, tt.err)
			}
			if tt.err != nil {
				return
			}
			if hex.EncodeToString(got) != tt.digest {
				t.Errorf("Secret(%q) = %x, want %s", tt.code, got, tt.digest)
			}
		})
	}
}

func TestSecret_SixDigitCode(t *testing.T) {
	t.Parallel()

	client := mustKey(t, clientModulus, 65537)
	server := mustKey(t, serverModulus, 3)

	code := validCode(t, client, server, "A1B2")
	got, err := Secret(client, server, code)
	if err != nil {
		t.Fatalf("Secret(%q): %v", code, err)
	}
	if len(got) != sha256.Size {
		t.Errorf("len = %d, want %d", len(got), sha256.Size)
	}
}

func TestSecret_RejectsWrongChecksum(t *testing.T) {
	t.Parallel()

	client := mustKey(t, clientModulus, 65537)
	server := mustKey(t, serverModulus, 65537)

	code := validCode(t, client, server, "2B")
	first, _ := hex.DecodeString(code[:2])
	wrong := fmt.Sprintf("%02X%s", first[0]^0x01, code[2:])

	if _, err := Secret(client, server, wrong); !errors.Is(err, ErrBadCode) {
		t.Fatalf("Secret(%q) error = %v, want ErrBadCode", wrong, err)
	}
}

func TestSecret_SensitiveToEveryInput(t *testing.T) {
	t.Parallel()

	client := mustKey(t, clientModulus, 65537)
	server := mustKey(t, serverModulus, 65537)
	base, err := Secret(client, server, validCode(t, client, server, "2B"))
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}

	flippedN := new(big.Int).Xor(client.N, big.NewInt(1))
	variants := []struct {
		name           string
		client, server *rsa.PublicKey
		suffix         string
	}{
		{"suffix bit", client, server, "2A"},
		{"client modulus bit", &rsa.PublicKey{N: flippedN, E: client.E}, server, "2B"},
		{"server exponent", client, &rsa.PublicKey{N: server.N, E: 3}, "2B"},
		{"swapped keys", server, client, "2B"},
	}
	for _, v := range variants {
		got, err := Secret(v.client, v.server, validCode(t, v.client, v.server, v.suffix))
		if err != nil {
			t.Fatalf("%s: %v", v.name, err)
		}
		if bytes.Equal(got, base) {
			t.Errorf("%s: digest unchanged", v.name)
		}
	}
}

func TestSecret_InvalidCode(t *testing.T) {
	t.Parallel()

	client := mustKey(t, clientModulus, 65537)
	server := mustKey(t, serverModulus, 65537)

	for _, code := range []string{"", "1", "12", "123", "12345", "ZZ11", "12 4"} {
		if _, err := Secret(client, server, code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Secret(%q) error = %v, want ErrInvalidCode", code, err)
		}
	}
}

func TestExponentBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		e    int
		want []byte
	}{
		{65537, []byte{0x01, 0x00, 0x01}},
		{3, []byte{0x03}},
		{0x100, []byte{0x01, 0x00}},
	}
	for _, tt := range tests {
		if got := exponentBytes(tt.e); !bytes.Equal(got, tt.want) {
			t.Errorf("exponentBytes(%d) = %x, want %x", tt.e, got, tt.want)
		}
	}
}
