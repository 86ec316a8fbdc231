package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"geoveil/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx.
// The repository accepts this so the same code works inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the shared-deployment repository, for operator installations
// where several reviewers work against one database.
type Postgres struct {
	db DBTX
}

var _ types.ObservationRepository = (*Postgres)(nil)

// NewPostgres creates a repository backed by the given connection (pool or
// transaction).
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// obsColumns is the standard column set for observation queries. History is
// stored as JSONB; coordinates are split into plain double precision columns
// so spatial queries stay possible on the public location.
const obsColumns = `o.id, o.created_at,
	o.exact_lat, o.exact_lon, o.accuracy_m,
	o.blur_radius_m,
	o.public_lat, o.public_lon,
	o.status, o.history`

// EnsureSchema creates the observations table if it does not exist. The cmd
// wiring calls this on startup; real installations may manage the schema
// with migrations instead.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS observations (
		id            TEXT PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL,
		exact_lat     DOUBLE PRECISION NOT NULL,
		exact_lon     DOUBLE PRECISION NOT NULL,
		accuracy_m    DOUBLE PRECISION,
		blur_radius_m INTEGER NOT NULL,
		public_lat    DOUBLE PRECISION NOT NULL,
		public_lon    DOUBLE PRECISION NOT NULL,
		status        TEXT NOT NULL,
		history       JSONB NOT NULL
	)`)
	if err != nil {
		return storeErr("ensure schema", err)
	}
	return nil
}

// scanObservation scans a single row into a record. The columns must match
// the order defined in obsColumns.
func scanObservation(row pgx.Row) (*types.ObservationRecord, error) {
	var rec types.ObservationRecord
	var (
		accuracy *float64
		history  []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.ExactLocation.Lat,
		&rec.ExactLocation.Lon,
		&accuracy,
		&rec.BlurRadiusMeters,
		&rec.PublicLocation.Lat,
		&rec.PublicLocation.Lon,
		&rec.Status,
		&history,
	)
	if err != nil {
		return nil, err
	}
	rec.ExactLocation.AccuracyMeters = accuracy
	if err := json.Unmarshal(history, &rec.History); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns all records ordered by creation time, oldest first.
func (p *Postgres) List(ctx context.Context) ([]*types.ObservationRecord, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+obsColumns+` FROM observations o ORDER BY o.created_at, o.id`)
	if err != nil {
		return nil, storeErr("list", err)
	}
	defer rows.Close()

	var out []*types.ObservationRecord
	for rows.Next() {
		rec, err := scanObservation(rows)
		if err != nil {
			return nil, storeErr("scan", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list", err)
	}
	return out, nil
}

// Get returns the record with the given id.
func (p *Postgres) Get(ctx context.Context, id string) (*types.ObservationRecord, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+obsColumns+` FROM observations o WHERE o.id = $1`, id)
	rec, err := scanObservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr("get", err)
	}
	return rec, nil
}

// Save inserts or replaces a record.
func (p *Postgres) Save(ctx context.Context, rec *types.ObservationRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	history, err := json.Marshal(rec.History)
	if err != nil {
		return storeErr("encode", err)
	}
	_, err = p.db.Exec(ctx, `INSERT INTO observations
		(id, created_at, exact_lat, exact_lon, accuracy_m,
		 blur_radius_m, public_lat, public_lon, status, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			history = EXCLUDED.history`,
		rec.ID, rec.CreatedAt,
		rec.ExactLocation.Lat, rec.ExactLocation.Lon, rec.ExactLocation.AccuracyMeters,
		rec.BlurRadiusMeters,
		rec.PublicLocation.Lat, rec.PublicLocation.Lon,
		rec.Status, history)
	if err != nil {
		return storeErr("save", err)
	}
	return nil
}

// Delete removes a record.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM observations WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}
