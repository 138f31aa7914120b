package pairing

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// Secret derives the pairing secret from both public keys and the code shown
// on the television. The digest covers, in order: client modulus, client
// exponent, server modulus, server exponent, and the code bytes after the
// first. The first code byte is a checksum that must equal the digest's
// first byte; ErrBadCode is returned when it does not.
func Secret(client, server *rsa.PublicKey, code string) ([]byte, error) {
	if len(code) < 4 || len(code)%2 != 0 {
		return nil, ErrInvalidCode
	}
	raw, err := hex.DecodeString(code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	h := sha256.New()
	h.Write(client.N.Bytes())
	h.Write(exponentBytes(client.E))
	h.Write(server.N.Bytes())
	h.Write(exponentBytes(server.E))
	h.Write(raw[1:])
	digest := h.Sum(nil)

	if digest[0] != raw[0] {
		return nil, ErrBadCode
	}
	return digest, nil
}

// exponentBytes is the big-endian exponent with no leading zero bytes;
// 65537 becomes 01 00 01.
func exponentBytes(e int) []byte {
	return big.NewInt(int64(e)).Bytes()
}
