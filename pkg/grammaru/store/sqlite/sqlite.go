package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/grammaru/pkg/grammaru/frame"
	"github.com/cognicore/grammaru/pkg/grammaru/internalerr"
	"github.com/cognicore/grammaru/pkg/grammaru/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection serialises writers and keeps the pragmas below in effect
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Wait for concurrent writers instead of failing with SQLITE_BUSY
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS frames (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id TEXT UNIQUE NOT NULL,
	name TEXT,
	row_count INTEGER NOT NULL,
	payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS features (
	job TEXT NOT NULL,
	version TEXT NOT NULL,
	featurizer TEXT NOT NULL,
	run_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY(job, version, featurizer)
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutFrame inserts or replaces a frame, keeping its original position
func (s *sqliteStore) PutFrame(ctx context.Context, e store.FrameEntry) error {
	if e.FileID == "" {
		return nil
	}
	if e.Frame == nil {
		return fmt.Errorf("%w: frame %s is nil", internalerr.ErrInvalidInput, e.FileID)
	}
	payload, err := json.Marshal(e.Frame)
	if err != nil {
		return err
	}

	const stmt = `
INSERT INTO frames (file_id, name, row_count, payload)
VALUES (?, ?, ?, ?)
ON CONFLICT(file_id) DO UPDATE SET
	name=excluded.name,
	row_count=excluded.row_count,
	payload=excluded.payload;
`
	_, err = s.db.ExecContext(ctx, stmt, e.FileID, e.Name, e.Frame.Len(), string(payload))
	return err
}

// GetFrame retrieves a frame by file id
func (s *sqliteStore) GetFrame(ctx context.Context, fileID string) (store.FrameEntry, bool, error) {
	var (
		name    sql.NullString
		payload string
	)
	err := s.db.QueryRowContext(ctx, `SELECT name, payload FROM frames WHERE file_id = ?`, fileID).Scan(&name, &payload)
	if err == sql.ErrNoRows {
		return store.FrameEntry{}, false, nil
	}
	if err != nil {
		return store.FrameEntry{}, false, err
	}

	var f frame.Frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return store.FrameEntry{}, false, err
	}
	return store.FrameEntry{FileID: fileID, Name: name.String, Frame: &f}, true, nil
}

// FileIDs lists file ids in insertion order
func (s *sqliteStore) FileIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_id FROM frames ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteFrame removes a frame
func (s *sqliteStore) DeleteFrame(ctx context.Context, fileID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM frames WHERE file_id = ?`, fileID)
	return err
}

// PutFeatures stores a feature set, replacing any earlier run
func (s *sqliteStore) PutFeatures(ctx context.Context, fs store.FeatureSet) error {
	payload, err := json.Marshal(fs.Frame)
	if err != nil {
		return err
	}
	created := fs.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	const stmt = `
INSERT INTO features (job, version, featurizer, run_id, created_at, payload)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(job, version, featurizer) DO UPDATE SET
	run_id=excluded.run_id,
	created_at=excluded.created_at,
	payload=excluded.payload;
`
	_, err = s.db.ExecContext(ctx, stmt,
		fs.Job, fs.Version, fs.Featurizer, fs.RunID,
		created.UTC().Format(time.RFC3339Nano), string(payload))
	return err
}

// GetFeatures retrieves the latest feature set of a featurizer
func (s *sqliteStore) GetFeatures(ctx context.Context, job, version, featurizer string) (store.FeatureSet, bool, error) {
	var runID, created, payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, payload FROM features WHERE job = ? AND version = ? AND featurizer = ?`,
		job, version, featurizer,
	).Scan(&runID, &created, &payload)
	if err == sql.ErrNoRows {
		return store.FeatureSet{}, false, nil
	}
	if err != nil {
		return store.FeatureSet{}, false, err
	}

	var f frame.Frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return store.FeatureSet{}, false, err
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, created)
	return store.FeatureSet{
		Job:        job,
		Version:    version,
		Featurizer: featurizer,
		RunID:      runID,
		CreatedAt:  createdAt,
		Frame:      &f,
	}, true, nil
}

// ListFeaturizers lists the featurizers stored for a job version
func (s *sqliteStore) ListFeaturizers(ctx context.Context, job, version string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT featurizer FROM features WHERE job = ? AND version = ? ORDER BY featurizer`, job, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
