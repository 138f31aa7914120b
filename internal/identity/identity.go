// Package identity generates and loads the self-signed client certificate the
// television uses to recognise this remote.
package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"
)

const (
	keyBits    = 2048
	serialSize = 20
)

// notAfter is the fixed expiry stamped on every generated certificate.
var notAfter = time.Date(2099, time.December, 31, 23, 59, 59, 0, time.UTC)

// Sentinel errors for the identity package.
var (
	ErrNoCertificate = errors.New("identity: no certificate in PEM data")
	ErrNotRSA        = errors.New("identity: key is not RSA")
)

// Subject holds the distinguished-name fields copied into the certificate.
type Subject struct {
	CommonName         string
	Country            string
	State              string
	Locality           string
	Organization       string
	OrganizationalUnit string
}

func (s Subject) name() pkix.Name {
	n := pkix.Name{CommonName: s.CommonName}
	if s.Country != "" {
		n.Country = []string{s.Country}
	}
	if s.State != "" {
		n.Province = []string{s.State}
	}
	if s.Locality != "" {
		n.Locality = []string{s.Locality}
	}
	if s.Organization != "" {
		n.Organization = []string{s.Organization}
	}
	if s.OrganizationalUnit != "" {
		n.OrganizationalUnit = []string{s.OrganizationalUnit}
	}
	return n
}

// Identity is an RSA key pair and its self-signed certificate. It is
// immutable once created.
type Identity struct {
	Certificate *x509.Certificate
	PrivateKey  *rsa.PrivateKey

	tlsCert tls.Certificate
}

// Generate creates a fresh 2048-bit identity valid from now until 2099.
func Generate(subject Subject) (*Identity, error) {
	return generate(rand.Reader, time.Now(), subject)
}

func generate(random io.Reader, now time.Time, subject Subject) (*Identity, error) {
	key, err := rsa.GenerateKey(random, keyBits)
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}

	serial := make([]byte, serialSize)
	serial[0] = 0x01
	if _, err := io.ReadFull(random, serial[1:]); err != nil {
		return nil, fmt.Errorf("identity: generate serial: %w", err)
	}

	name := subject.name()
	tmpl := &x509.Certificate{
		SerialNumber:       new(big.Int).SetBytes(serial),
		Subject:            name,
		Issuer:             name,
		NotBefore:          now,
		NotAfter:           notAfter,
		SignatureAlgorithm: x509.SHA256WithRSA,
		KeyUsage:           x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:        []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}

	der, err := x509.CreateCertificate(random, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("identity: sign certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("identity: parse certificate: %w", err)
	}
	return newIdentity(cert, key), nil
}

// Parse loads an identity from PEM-encoded certificate and key. The key may
// be PKCS#1 or PKCS#8 and must match the certificate.
func Parse(certPEM, keyPEM []byte) (*Identity, error) {
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("identity: load key pair: %w", err)
	}
	if len(pair.Certificate) == 0 {
		return nil, ErrNoCertificate
	}
	key, ok := pair.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	cert, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("identity: parse certificate: %w", err)
	}
	return newIdentity(cert, key), nil
}

func newIdentity(cert *x509.Certificate, key *rsa.PrivateKey) *Identity {
	return &Identity{
		Certificate: cert,
		PrivateKey:  key,
		tlsCert: tls.Certificate{
			Certificate: [][]byte{cert.Raw},
			PrivateKey:  key,
			Leaf:        cert,
		},
	}
}

// PublicKey returns the certificate's RSA public key.
func (id *Identity) PublicKey() *rsa.PublicKey {
	return &id.PrivateKey.PublicKey
}

// TLSCertificate returns the identity in the form crypto/tls presents it.
func (id *Identity) TLSCertificate() tls.Certificate {
	return id.tlsCert
}

// PEM exports the certificate and PKCS#1 private key.
func (id *Identity) PEM() (certPEM, keyPEM []byte) {
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: id.Certificate.Raw})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(id.PrivateKey)})
	return certPEM, keyPEM
}

// ClientTLSConfig returns a TLS client configuration presenting this
// identity. Televisions use self-signed certificates, so the server chain
// is not verified; trust comes from pairing.
func (id *Identity) ClientTLSConfig() *tls.Config {
	return &tls.Config{
		Certificates:       []tls.Certificate{id.tlsCert},
		InsecureSkipVerify: true, //nolint:gosec // peer trust is established by pairing
	}
}
