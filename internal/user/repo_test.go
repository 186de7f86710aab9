package user

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/ecosync/internal/errs"
)

var userCols = []string{"id", "name", "email", "password", "lng", "lat", "address",
	"trust_score", "eco_points", "level", "profile_photo", "created_at"}

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewRepo(mock), mock
}

func userRow(id string, points int, level string) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).
		AddRow(id, "Ann", "ann@example.com", "hash", 13.4, 52.5, "Main St", 0, points, level, "", time.Now())
}

func TestLevelFor(t *testing.T) {
	cases := map[int]Level{
		0: LevelSeedling, 50: LevelSeedling, 51: LevelSapling, 60: LevelSapling,
		150: LevelSapling, 151: LevelOak, 300: LevelOak, 301: LevelChampion, 1000: LevelChampion,
	}
	for points, want := range cases {
		require.Equal(t, want, LevelFor(points), "points=%d", points)
	}
}

func TestRepo_Create_OK_and_Duplicate(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()
	ctx := context.Background()

	u := &User{Name: " Ann ", Email: "Ann@Example.COM", Password: "hash"}
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Ann", "ann@example.com", "hash", 0.0, 0.0, "",
			0, 0, "seedling", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))
	require.NotEmpty(t, u.ID)
	require.Equal(t, LevelSeedling, u.Level)

	dup := &User{Name: "Ann", Email: "ann@example.com", Password: "hash"}
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, dup), errs.ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByID(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()
	ctx := context.Background()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(userRow("u1", 70, "sapling"))
	u, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, LevelSapling, u.Level)
	require.Equal(t, []float64{13.4, 52.5}, u.Location.Coordinates())

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepo_GetByEmail_LowerCases(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ann@example.com").
		WillReturnRows(userRow("u1", 0, "seedling"))
	u, err := r.GetByEmail(context.Background(), " ANN@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
}

func TestRepo_AddPoints_RecomputesLevelAndRecordsLedger(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT eco_points FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"eco_points"}).AddRow(40))
	mock.ExpectQuery(`UPDATE users SET eco_points = \$2, level = \$3`).
		WithArgs("u1", 60, "sapling").
		WillReturnRows(userRow("u1", 60, "sapling"))
	mock.ExpectExec(`INSERT INTO points_ledger`).
		WithArgs(pgxmock.AnyArg(), "u1", 20, 60, "award", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	u, err := r.AddPoints(context.Background(), "u1", 20, "award", "")
	require.NoError(t, err)
	require.Equal(t, 60, u.EcoPoints)
	require.Equal(t, LevelSapling, u.Level)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_AddPoints_RejectsNegativeBalance(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT eco_points FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"eco_points"}).AddRow(10))
	mock.ExpectRollback()

	_, err := r.AddPoints(context.Background(), "u1", -11, "award", "")
	require.ErrorIs(t, err, errs.ErrInsufficientPoints)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_AddPoints_OutOfRange(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := r.AddPoints(context.Background(), "u1", math.MaxInt32+1, "award", "")
	require.ErrorIs(t, err, errs.ErrValidation)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT eco_points FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"eco_points"}).AddRow(10))
	mock.ExpectRollback()
	_, err = r.AddPoints(context.Background(), "u1", math.MaxInt32, "award", "")
	require.ErrorIs(t, err, errs.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_AddPoints_UnknownUser(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.AddPoints(context.Background(), "nope", 5, "award", "")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRepo_RecomputeLevels(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()

	mock.ExpectExec(`UPDATE users SET level = CASE`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	n, err := r.RecomputeLevels(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}
