package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenFile(filepath.Join(dir, "session.yaml"))
	require.NoError(t, err)

	sqlite, err := OpenSQLite(context.Background(), filepath.Join(dir, "session.db"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "miniapp:")

	stores := map[string]Store{
		"memory":    NewMemory(),
		"file":      file,
		"sqlite":    sqlite,
		"redis":     rdb,
		"namespace": Namespace(NewMemory(), "tg:1:"),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := store.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(ctx, "authToken", "t1"))
			require.NoError(t, store.Set(ctx, "userId", "u1"))
			require.NoError(t, store.Set(ctx, "authToken", "t2"))

			v, ok, err := store.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "t2", v)

			require.NoError(t, store.Set(ctx, "empty", ""))
			v, ok, err = store.Get(ctx, "empty")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Empty(t, v)

			require.NoError(t, store.Remove(ctx, "authToken"))
			require.NoError(t, store.Remove(ctx, "never-set"))

			_, ok, err = store.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.False(t, ok)

			v, _, err = store.Get(ctx, "userId")
			require.NoError(t, err)
			assert.Equal(t, "u1", v)
		})
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "userId", "u1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "userId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", v)
}

func TestFileFailedWriteLeavesValuesUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	f, err := OpenFile(filepath.Join(dir, "session.yaml"))
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "userId", "u1"))

	// Writes fail once the directory is gone.
	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, f.Set(ctx, "authToken", "t1"))
	_, ok, err := f.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, f.Remove(ctx, "userId"))
	v, ok, err := f.Get(ctx, "userId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", v)
}

func TestFileRejectsCorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "authToken", "t1"))
	require.NoError(t, s.Close())

	// Migrations are already applied the second time.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", v)
}

func TestRedisKeysArePrefixedWithoutTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "miniapp:")
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), "userId", "u1"))

	got, err := mr.Get("miniapp:userId")
	require.NoError(t, err)
	assert.Equal(t, "u1", got)
	assert.Zero(t, mr.TTL("miniapp:userId"))
}

func TestNamespacesAreDisjoint(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := ForTelegramUser(base, 1)
	b := ForTelegramUser(base, 2)

	require.NoError(t, a.Set(ctx, "userId", "alice"))
	require.NoError(t, b.Set(ctx, "userId", "bob"))

	v, _, _ := a.Get(ctx, "userId")
	assert.Equal(t, "alice", v)
	v, _, _ = base.Get(ctx, "tg:2:userId")
	assert.Equal(t, "bob", v)

	require.NoError(t, a.Close())
	assert.Equal(t, 2, base.Len())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Config{Driver: "FILE", Path: filepath.Join(dir, "s.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, Config{Driver: "sqlite", Path: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.Close()

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Config{Driver: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, s)
	s.Close()

	_, err = Open(ctx, Config{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
