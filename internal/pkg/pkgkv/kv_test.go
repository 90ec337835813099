package pkgkv

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "session:missing")
	require.ErrorIs(t, err, pkgerror.ErrNotFound)

	require.NoError(t, store.Set(ctx, "session:a", []byte(`{"filename":"a.csv"}`), 0))
	got, err := store.Get(ctx, "session:a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"filename":"a.csv"}`, string(got))

	require.NoError(t, store.Set(ctx, "session:a", []byte(`{"filename":"b.csv"}`), 0))
	got, err = store.Get(ctx, "session:a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"filename":"b.csv"}`, string(got))

	require.NoError(t, store.Delete(ctx, "session:a"))
	_, err = store.Get(ctx, "session:a")
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "session:never"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory(nil)
	defer store.Close()

	exerciseStore(t, store)
}

func TestMemoryExpiry(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemory(clock.Now)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	clock.now = clock.now.Add(59 * time.Second)
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Second)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)
	assert.Empty(t, store.entries)
}

func TestMemoryReturnsCopies(t *testing.T) {
	store := NewMemory(nil)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'z'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestBadgerRequiresDir(t *testing.T) {
	_, err := OpenBadger("")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteExpiryAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	store, err := OpenSQLite(path, clock.Now)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "long", []byte("2"), 0))
	require.NoError(t, store.Close())

	// migrations are idempotent across reopen
	store, err = OpenSQLite(path, clock.Now)
	require.NoError(t, err)
	defer store.Close()

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)

	got, err := store.Get(ctx, "long")
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/kv.db")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_synchronous=NORMAL")
}

func TestOpenDrivers(t *testing.T) {
	store, err := Open(Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)

	store, err = Open(Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, store)
	require.NoError(t, store.Close())

	_, err = Open(Options{Driver: "redis"})
	assert.Error(t, err)
}
