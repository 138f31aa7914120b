// Package store persists paired identities in SQLite so a television only
// has to be paired once.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const defaultBusyTimeout = 5000

// ErrNotFound is returned when no credential is stored for a host.
var ErrNotFound = errors.New("store: credential not found")

// Credential is the identity a television trusts, in PEM form.
type Credential struct {
	Host     string
	CertPEM  []byte
	KeyPEM   []byte
	PairedAt time.Time
}

// Store is a SQLite-backed credential store. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates its schema.
//
// The database uses WAL mode, a 5 s busy timeout and a single connection
// (SQLite serialises writes).
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores c, replacing any credential for the same host.
func (s *Store) Save(ctx context.Context, c Credential) error {
	pairedAt := c.PairedAt
	if pairedAt.IsZero() {
		pairedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO credentials (host, cert_pem, key_pem, paired_at)
		VALUES (?, ?, ?, ?)`,
		c.Host, string(c.CertPEM), string(c.KeyPEM), pairedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", c.Host, err)
	}
	return nil
}

// Load returns the credential for host, or ErrNotFound.
func (s *Store) Load(ctx context.Context, host string) (Credential, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT host, cert_pem, key_pem, paired_at
		FROM credentials
		WHERE host = ?`, host)
	c, err := scanCredential(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, fmt.Errorf("%w: %s", ErrNotFound, host)
	}
	if err != nil {
		return Credential{}, fmt.Errorf("store: load %s: %w", host, err)
	}
	return c, nil
}

// Delete removes the credential for host. Deleting a missing host is not an
// error.
func (s *Store) Delete(ctx context.Context, host string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE host = ?", host); err != nil {
		return fmt.Errorf("store: delete %s: %w", host, err)
	}
	return nil
}

// List returns every stored credential ordered by host.
func (s *Store) List(ctx context.Context) ([]Credential, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT host, cert_pem, key_pem, paired_at
		FROM credentials
		ORDER BY host`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCredential(row scanner) (Credential, error) {
	var (
		c                  Credential
		cert, key, pairedAt string
	)
	if err := row.Scan(&c.Host, &cert, &key, &pairedAt); err != nil {
		return Credential{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, pairedAt)
	if err != nil {
		return Credential{}, fmt.Errorf("parse paired_at: %w", err)
	}
	c.CertPEM, c.KeyPEM, c.PairedAt = []byte(cert), []byte(key), t
	return c, nil
}
