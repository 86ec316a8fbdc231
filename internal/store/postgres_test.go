package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geoveil/internal/types"
)

// --- Mock DBTX ---

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// --- Mock Row ---

type mockRow struct {
	scanErr error
	scanFn  func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.scanFn != nil {
		return r.scanFn(dest...)
	}
	return r.scanErr
}

// --- Postgres repository tests ---

func TestPostgres_Save_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	rec := testRecord("obs_1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	err := repo.Save(context.Background(), rec)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestPostgres_Save_RejectsInvalidRecord(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	rec := testRecord("obs_1", time.Now().UTC())
	rec.PublicLocation.Lon = -200

	err := repo.Save(context.Background(), rec)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeInvalidLongitude))
	db.AssertNotCalled(t, "Exec")
}

func TestPostgres_Save_DBError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("connection refused"))

	err := repo.Save(context.Background(), testRecord("obs_1", time.Now().UTC()))
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeInternalStore, appErr.Code)
}

func TestPostgres_Get_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	history := `[{"state":"submitted","at":"2026-03-01T09:00:00Z"}]`
	row := &mockRow{
		scanFn: func(dest ...any) error {
			*dest[0].(*string) = "obs_found"
			*dest[1].(*time.Time) = createdAt
			*dest[2].(*float64) = 5.6037
			*dest[3].(*float64) = -0.1870
			*dest[4].(**float64) = nil
			*dest[5].(*int) = 300
			*dest[6].(*float64) = 5.6050
			*dest[7].(*float64) = -0.1890
			*dest[8].(*types.Status) = types.StatusSubmitted
			*dest[9].(*[]byte) = []byte(history)
			return nil
		},
	}

	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(row)

	rec, err := repo.Get(context.Background(), "obs_found")
	require.NoError(t, err)
	assert.Equal(t, "obs_found", rec.ID)
	assert.InDelta(t, 5.6037, rec.ExactLocation.Lat, 1e-12)
	assert.InDelta(t, -0.1890, rec.PublicLocation.Lon, 1e-12)
	assert.Equal(t, types.StatusSubmitted, rec.Status)
	require.Len(t, rec.History, 1)
	assert.Equal(t, types.StatusSubmitted, rec.History[0].Status)
}

func TestPostgres_Get_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	row := &mockRow{scanErr: pgx.ErrNoRows}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(row)

	_, err := repo.Get(context.Background(), "obs_missing")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeNotFoundObservation))
}

func TestPostgres_Delete_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("DELETE 1"), nil)

	err := repo.Delete(context.Background(), "obs_1")
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestPostgres_Delete_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)

	err := repo.Delete(context.Background(), "obs_missing")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeNotFoundObservation))
}

func TestPostgres_EnsureSchema(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgres(db)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("CREATE TABLE"), nil)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	db.AssertExpectations(t)
}
