package persistence

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// stateKey namespaces the blob inside the key-value table.
const stateKey = "souschef/state/v1"

// Adapter persists snapshots as a single JSON blob in a sqlite key-value
// table. Single writer; concurrent writers are not a designed scenario.
type Adapter struct {
	db *sql.DB
}

// Open creates the backing database and table if needed.
func Open(dbPath string) (*Adapter, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "creating state directory")
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating app_state table")
	}

	return &Adapter{db: db}, nil
}

// Save writes the snapshot, stamping the current schema version.
func (a *Adapter) Save(snap *Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	value, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshaling snapshot")
	}

	// REPLACE INTO handles both first write and update.
	_, err = a.db.Exec(`
		REPLACE INTO app_state (key, value)
		VALUES (?, ?)
	`, stateKey, string(value))
	if err != nil {
		return errors.Wrap(err, "writing snapshot")
	}
	return nil
}

// Load reads and rehydrates the snapshot. Missing or malformed persisted
// content yields a default snapshot, never an error; only I/O failure is
// reported.
func (a *Adapter) Load() (*Snapshot, error) {
	var value string
	err := a.db.QueryRow(`
		SELECT value FROM app_state WHERE key = ?
	`, stateKey).Scan(&value)
	if err == sql.ErrNoRows {
		return emptySnapshot(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying snapshot")
	}
	return decodeSnapshot([]byte(value)), nil
}

// Close closes the database connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}
