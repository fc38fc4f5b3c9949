package cache

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a single sqlite database file. Each
// fingerprint owns exactly one row; storing an existing fingerprint
// replaces it.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a sqlite database at file and
// ensures its schema exists.
func NewSQLiteStore(file string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS tables (
		id TEXT NOT NULL PRIMARY KEY,
		fingerprint TEXT NOT NULL UNIQUE,
		flavour INTEGER NOT NULL,
		artifact TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := s.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *SQLiteStore) Store(fingerprint string, a Artifact) error {
	blob, err := rezi.EncBinary(a)
	if err != nil {
		return fmt.Errorf("encoding cache artifact: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(blob)

	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("could not generate row ID: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO tables (id, fingerprint, flavour, artifact, created) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET flavour=excluded.flavour, artifact=excluded.artifact, created=excluded.created;`,
		id.String(), fingerprint, int(a.Flavour), encoded, time.Now().Unix(),
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *SQLiteStore) Load(fingerprint string) (Artifact, bool, error) {
	var encoded string
	row := s.db.QueryRow(`SELECT artifact FROM tables WHERE fingerprint = ?;`, fingerprint)
	err := row.Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, false, nil
	}
	if err != nil {
		return Artifact{}, false, wrapDBError(err)
	}

	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Artifact{}, false, fmt.Errorf("decoding stored artifact: %w", err)
	}

	var a Artifact
	n, err := rezi.DecBinary(blob, &a)
	if err != nil {
		return Artifact{}, false, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(blob) {
		return Artifact{}, false, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(blob))
	}

	return a, true, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}
