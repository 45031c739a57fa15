package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseKV runs the contract every backend must honour.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, found, err := kv.Get(ctx, "weatherFavorites")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "weatherFavorites", `[]`))
	require.NoError(t, kv.Set(ctx, "weatherFavorites", `[{"location":{"name":"Paris"}}]`))

	v, found, err := kv.Get(ctx, "weatherFavorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"location":{"name":"Paris"}}]`, v)

	// keys are case-sensitive
	_, found, err = kv.Get(ctx, "WeatherFavorites")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseKV(t, s)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Set(context.Background(), "k", "v"), ErrClosed)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "favorites.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseKV(t, s)
	require.NoError(t, s.Close())

	// contents survive a reopen
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, found, err := reopened.Get(context.Background(), "weatherFavorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, v, "Paris")
}

func TestFileStoreRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	kv, err := Open(context.Background(), Options{Backend: BackendFile, FilePath: path})
	require.NoError(t, err)

	_, found, err := kv.Get(context.Background(), "weatherFavorites")
	require.NoError(t, err)
	assert.False(t, found)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{oops", string(aside))

	// the store keeps working and rewrites a clean file
	exerciseKV(t, kv)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "weatherFavorites")
}

func TestFileStoreNullDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseKV(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseKV(t, s)
}

func TestRedisStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStoreWithClient(db)
	ctx := context.Background()

	mock.ExpectGet("weatherFavorites").RedisNil()
	mock.ExpectSet("weatherFavorites", `[]`, 0).SetVal("OK")
	mock.ExpectGet("weatherFavorites").SetVal(`[]`)
	mock.ExpectGet("broken").SetErr(errors.New("connection reset"))

	_, found, err := s.Get(ctx, "weatherFavorites")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "weatherFavorites", `[]`))

	v, found, err := s.Get(ctx, "weatherFavorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, v)

	_, _, err = s.Get(ctx, "broken")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrefixed(t *testing.T) {
	base := NewMemoryStore()
	ctx := context.Background()

	a := Prefixed(base, "session-a")
	b := Prefixed(base, "session-b")

	require.NoError(t, a.Set(ctx, "weatherFavorites", "A"))
	require.NoError(t, b.Set(ctx, "weatherFavorites", "B"))

	v, _, _ := a.Get(ctx, "weatherFavorites")
	assert.Equal(t, "A", v)
	v, _, _ = b.Get(ctx, "weatherFavorites")
	assert.Equal(t, "B", v)

	v, found, _ := base.Get(ctx, "session-a::weatherFavorites")
	assert.True(t, found)
	assert.Equal(t, "A", v)

	// closing a scoped view leaves the parent usable
	require.NoError(t, a.Close())
	assert.NoError(t, base.Set(ctx, "x", "y"))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"})
	assert.Error(t, err)

	kv, err := Open(context.Background(), Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)
}
