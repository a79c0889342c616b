package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/floorplan-seat-planner/internal/database"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "gestionPuestos")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "gestionPuestos", `{"empresas":[]}`))
	v, ok, err := s.Get(ctx, "gestionPuestos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"empresas":[]}`, v)

	require.NoError(t, s.Set(ctx, "gestionPuestos", `{"empresas":[{"id":"1"}]}`))
	v, _, err = s.Get(ctx, "gestionPuestos")
	require.NoError(t, err)
	assert.Equal(t, `{"empresas":[{"id":"1"}]}`, v)

	_, ok, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseStore(t, NewRedisStore(rdb, "planner"))

	raw, err := mr.Get("planner:gestionPuestos")
	require.NoError(t, err, "keys are namespaced by the prefix")
	assert.Equal(t, `{"empresas":[{"id":"1"}]}`, raw)
	assert.Zero(t, mr.TTL("planner:gestionPuestos"), "state never expires")
}

func TestRedisStoreWithoutPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb, "")
	require.NoError(t, s.Set(context.Background(), "gestionPuestos", "{}"))
	assert.True(t, mr.Exists("gestionPuestos"))
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, ok, err := NewRedisStore(rdb, "planner").Get(context.Background(), "gestionPuestos")
	assert.Error(t, err, "only redis.Nil means absent")
	assert.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewSQLStore(db, DialectSQLite)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()), "migrate is idempotent")

	exerciseStore(t, s)
}

func TestSQLStoreUnknownDialect(t *testing.T) {
	s := NewSQLStore(nil, Dialect("oracle"))
	assert.Error(t, s.Migrate(context.Background()))
	assert.Error(t, s.Set(context.Background(), "k", "v"))
}
