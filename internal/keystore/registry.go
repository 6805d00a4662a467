package keystore

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// RegistryEntry is one generated key pair: where its halves were persisted
// and the fingerprint of the server key blob.
type RegistryEntry struct {
	UUID          uuid.UUID
	Fingerprint   string
	ClientKeyPath string
	ServerKeyPath string
	CreatedAt     time.Time
}

// Registry records generated key pairs in sqlite.
type Registry struct {
	db *sql.DB
}

func createKeyPairTable() string {
	return `
		CREATE TABLE IF NOT EXISTS KeyPairs (
			uuid TEXT PRIMARY KEY NOT NULL,
			fingerprint TEXT NOT NULL,
			clientKeyPath TEXT NOT NULL,
			serverKeyPath TEXT NOT NULL,
			createdAt INTEGER NOT NULL
		);
	`
}

// OpenRegistry opens (creating if needed) the registry database at path.
func OpenRegistry(path string) (*Registry, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open registry")
	}
	if _, err := db.Exec(createKeyPairTable()); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create KeyPairs table")
	}
	return &Registry{db: db}, nil
}

func (r *Registry) Close() error { return r.db.Close() }

// Record inserts a key pair entry. UUIDs are primary keys; recording the
// same pair twice is an error.
func (r *Registry) Record(e *RegistryEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO KeyPairs (uuid, fingerprint, clientKeyPath, serverKeyPath, createdAt)
		VALUES (?, ?, ?, ?, ?);
	`, e.UUID.String(), e.Fingerprint, e.ClientKeyPath, e.ServerKeyPath, e.CreatedAt.Unix())
	return errors.Wrap(err, "insert key pair")
}

// Get looks a key pair up by identifier.
func (r *Registry) Get(id uuid.UUID) (*RegistryEntry, error) {
	stmt, err := r.db.Prepare(`
		SELECT uuid, fingerprint, clientKeyPath, serverKeyPath, createdAt
		FROM KeyPairs
		WHERE uuid = ?;
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare statement")
	}
	defer stmt.Close()

	return scanEntry(stmt.QueryRow(id.String()))
}

// List returns every recorded key pair, oldest first.
func (r *Registry) List() ([]RegistryEntry, error) {
	rows, err := r.db.Query(`
		SELECT uuid, fingerprint, clientKeyPath, serverKeyPath, createdAt
		FROM KeyPairs
		ORDER BY createdAt;
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query key pairs")
	}
	defer rows.Close()

	var entries []RegistryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, errors.Wrap(rows.Err(), "iterate key pairs")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*RegistryEntry, error) {
	var (
		e       RegistryEntry
		rawUUID string
		created int64
	)
	if err := row.Scan(&rawUUID, &e.Fingerprint, &e.ClientKeyPath, &e.ServerKeyPath, &created); err != nil {
		return nil, errors.Wrap(err, "scan row")
	}
	id, err := uuid.Parse(rawUUID)
	if err != nil {
		return nil, errors.Wrap(err, "parse uuid")
	}
	e.UUID = id
	e.CreatedAt = time.Unix(created, 0)
	return &e, nil
}
