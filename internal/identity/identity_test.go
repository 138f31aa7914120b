package identity

import (
	"bytes"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"testing"
	"time"
)

func testSubject() Subject {
	return Subject{
		CommonName:         "atvremote",
		Country:            "FR",
		State:              "Ile-de-France",
		Locality:           "Paris",
		Organization:       "Living Room",
		OrganizationalUnit: "Remotes",
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := generate(rand.Reader, now, testSubject())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cert := id.Certificate
	if cert.Subject.CommonName != "atvremote" {
		t.Errorf("CommonName = %q, want %q", cert.Subject.CommonName, "atvremote")
	}
	if got := cert.Subject.Province; len(got) != 1 || got[0] != "Ile-de-France" {
		t.Errorf("Province = %v, want [Ile-de-France]", got)
	}
	if got := cert.Issuer.CommonName; got != "atvremote" {
		t.Errorf("Issuer.CommonName = %q, want self-signed", got)
	}
	if !cert.NotBefore.Equal(now) {
		t.Errorf("NotBefore = %v, want %v", cert.NotBefore, now)
	}
	if cert.NotAfter.Year() != 2099 {
		t.Errorf("NotAfter year = %d, want 2099", cert.NotAfter.Year())
	}
	if got := cert.PublicKeyAlgorithm.String(); got != "RSA" {
		t.Errorf("PublicKeyAlgorithm = %s, want RSA", got)
	}
	if bits := id.PrivateKey.N.BitLen(); bits != 2048 {
		t.Errorf("key size = %d, want 2048", bits)
	}

	serial := cert.SerialNumber.Bytes()
	if len(serial) != 20 || serial[0] != 0x01 {
		t.Errorf("serial = %x, want 20 bytes starting with 01", serial)
	}
	if err := cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature); err != nil {
		t.Errorf("self-signature invalid: %v", err)
	}
}

func TestPEMRoundTrip(t *testing.T) {
	t.Parallel()

	id, err := Generate(testSubject())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	certPEM, keyPEM := id.PEM()
	if block, _ := pem.Decode(keyPEM); block == nil || block.Type != "RSA PRIVATE KEY" {
		t.Fatalf("key PEM block type unexpected: %q", keyPEM)
	}

	loaded, err := Parse(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(loaded.Certificate.Raw, id.Certificate.Raw) {
		t.Error("certificate changed across PEM round trip")
	}
	if loaded.PublicKey().N.Cmp(id.PublicKey().N) != 0 {
		t.Error("modulus changed across PEM round trip")
	}
	if got := loaded.TLSCertificate().Leaf; got == nil {
		t.Error("TLSCertificate().Leaf is nil")
	}
}

func TestParse_Mismatch(t *testing.T) {
	t.Parallel()

	a, err := Generate(testSubject())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(testSubject())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	certPEM, _ := a.PEM()
	_, keyPEM := b.PEM()
	if _, err := Parse(certPEM, keyPEM); err == nil {
		t.Fatal("expected error for mismatched key")
	}
}

func TestParse_Garbage(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("not pem"), []byte("still not pem"))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotRSA) {
		t.Errorf("unexpected ErrNotRSA for garbage input")
	}
}
