package lite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"bindbench/bench"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	dsn := DSN(bench.ConnConfig{Database: filepath.Join(t.TempDir(), "bench.db")})
	s, err := Open(context.Background(), dsn, "employees")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateTable(context.Background()))
	return s
}

func TestSchemaIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.CreateTable(ctx))
	ok, err := s.exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DropTable(ctx))
	require.NoError(t, s.DropTable(ctx))
	require.NoError(t, s.TruncateTable(ctx))
	ok, err = s.exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimpleAndTypedStoreSameContent(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	e := bench.Employee{
		FirstName:   "Zoë",
		LastName:    "OConnor",
		DateOfBirth: time.Date(1991, 3, 14, 0, 0, 0, 0, time.UTC),
		DateVested:  time.Date(2016, 7, 1, 9, 30, 15, 123456789, time.UTC),
	}

	simpleID, err := s.AddSimple(ctx, e)
	require.NoError(t, err)
	typedID, err := s.AddTyped(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, simpleID+1, typedID)

	rows, err := bench.CollectAll(ctx, s)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, e.FirstName, r.FirstName)
		assert.Equal(t, e.LastName, r.LastName)
		assert.True(t, e.DateOfBirth.Equal(r.DateOfBirth), "date_of_birth %s", r.DateOfBirth)
		assert.True(t, e.DateVested.Equal(r.DateVested), "date_vested %s keeps nanoseconds", r.DateVested)
	}

	const raw = `SELECT typeof(date_vested), CAST(date_vested AS TEXT) FROM employees WHERE id = ?`
	var plainType, plain, typedType, typed string
	require.NoError(t, s.db.QueryRowContext(ctx, raw, simpleID).Scan(&plainType, &plain))
	require.NoError(t, s.db.QueryRowContext(ctx, raw, typedID).Scan(&typedType, &typed))
	assert.Equal(t, "text", plainType)
	assert.Equal(t, plainType, typedType)
	assert.Equal(t, FormatTime(e.DateVested), plain)
	assert.Equal(t, plain, typed, "both strategies store the same text")
}

func TestUpdateStrategies(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	id, err := s.AddSimple(ctx, bench.Anchor)
	require.NoError(t, err)

	e := bench.Anchor
	e.ID = id
	e.FirstName = "Søren"
	e.DateOfBirth = e.DateOfBirth.AddDate(0, 0, -7)

	n, err := s.UpdateTyped(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	e.LastName = "Kowalski"
	n, err = s.UpdateSimple(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	e.ID = 404
	n, err = s.UpdateSimple(ctx, e)
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := bench.CollectAll(ctx, s)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Søren", rows[0].FirstName)
	assert.Equal(t, "Kowalski", rows[0].LastName)
	assert.True(t, time.Date(1989, 12, 25, 0, 0, 0, 0, time.UTC).Equal(rows[0].DateOfBirth))
}

func TestLongNamesRejected(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	e := bench.Anchor
	e.FirstName = strings.Repeat("é", bench.MaxNameLength+1)

	_, err := s.AddTyped(ctx, e)
	assert.ErrorIs(t, err, bench.ErrValueTooLong)

	_, err = s.AddSimple(ctx, e)
	assert.ErrorContains(t, err, "CHECK constraint failed")

	rows, err := bench.CollectAll(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTruncateRestartsIdentity(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	for range 3 {
		_, err := s.AddSimple(ctx, bench.Anchor)
		require.NoError(t, err)
	}
	require.NoError(t, s.TruncateTable(ctx))

	id, err := s.AddTyped(ctx, bench.Anchor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestSuiteAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	r := bench.NewRunner(bench.NewGenerator(21), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.Warmup = 3

	var names []string
	for res, err := range r.Suite(ctx, s, 5) {
		require.NoError(t, err)
		assert.Equal(t, 5, res.Iterations)
		names = append(names, res.Name)
	}
	assert.Equal(t, bench.SuiteOrder, names)

	rows, err := bench.CollectAll(ctx, s)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(rows))

	// The final rows are one mutation away from a fresh insert.
	fresh := slices.Collect(bench.NewGenerator(21).Generate(5))
	for i := range rows {
		assert.True(t, fresh[i].DateOfBirth.AddDate(0, 0, -7).Equal(rows[i].DateOfBirth))
		assert.True(t, fresh[i].DateVested.AddDate(0, 0, -7).Equal(rows[i].DateVested))
	}
}

func ids(rows []bench.Employee) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
