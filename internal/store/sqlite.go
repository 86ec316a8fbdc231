package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"geoveil/internal/types"
)

// SQLite persists records as JSON payloads in a single table. This is the
// local-first default: one file on the reporter's device, no server.
type SQLite struct {
	db *sql.DB
}

var _ types.ObservationRepository = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "geoveil.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS observations (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		payload    BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create observations table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// List returns all records ordered by creation time, oldest first.
func (s *SQLite) List(ctx context.Context) ([]*types.ObservationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM observations ORDER BY created_at, id`)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*types.ObservationRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, storeErr("scan", err)
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list", err)
	}
	return out, nil
}

// Get returns the record with the given id.
func (s *SQLite) Get(ctx context.Context, id string) (*types.ObservationRecord, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM observations WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr("get", err)
	}
	return decodeRecord(payload)
}

// Save inserts or replaces a record.
func (s *SQLite) Save(ctx context.Context, rec *types.ObservationRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return storeErr("encode", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO observations (id, created_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		rec.ID, rec.CreatedAt.UTC().Format(time.RFC3339Nano), payload)
	if err != nil {
		return storeErr("save", err)
	}
	return nil
}

// Delete removes a record.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM observations WHERE id = ?`, id)
	if err != nil {
		return storeErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func decodeRecord(payload []byte) (*types.ObservationRecord, error) {
	var rec types.ObservationRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, storeErr("decode", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

func storeErr(op string, err error) error {
	return types.NewAppError(types.ErrCodeInternalStore, op+" failed", err)
}
