package auth_test

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/storage"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

type fakeAuthenticator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, initData string) (*api.LoginResponse, error)
}

func (f *fakeAuthenticator) Login(ctx context.Context, initData string) (*api.LoginResponse, error) {
	f.calls.Add(1)
	return f.fn(ctx, initData)
}

func loginOK(token, id string) *fakeAuthenticator {
	return &fakeAuthenticator{fn: func(context.Context, string) (*api.LoginResponse, error) {
		return &api.LoginResponse{Token: token, User: api.LoginUser{ID: api.ID(id)}}, nil
	}}
}

func stored(t *testing.T, kv auth.KeyValueStore, key string) string {
	t.Helper()
	v, _, err := kv.Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestBootstrapReturnsPersistedSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, auth.SaveSession(ctx, kv, auth.Session{UserID: "u0", AuthToken: "t0"}))

	authn := loginOK("t1", "u1")
	b := auth.NewBootstrapper(kv, auth.NewStaticHost("user=x&hash=y"), authn)

	first := b.Bootstrap(ctx)
	second := b.Bootstrap(ctx)

	assert.Equal(t, auth.Session{UserID: "u0", AuthToken: "t0"}, first)
	assert.Equal(t, first, second)
	assert.Zero(t, authn.calls.Load())
	assert.Equal(t, auth.StateAuthenticated, b.State())
}

func TestBootstrapLoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	authn := loginOK("t1", "u1")
	var gotInitData string
	inner := authn.fn
	authn.fn = func(ctx context.Context, initData string) (*api.LoginResponse, error) {
		gotInitData = initData
		return inner(ctx, initData)
	}

	b := auth.NewBootstrapper(kv, auth.NewStaticHost("query_id=q&hash=h"), authn)
	s := b.Bootstrap(ctx)

	assert.Equal(t, auth.Session{UserID: "u1", AuthToken: "t1"}, s)
	assert.Equal(t, "query_id=q&hash=h", gotInitData)
	assert.Equal(t, "t1", stored(t, kv, auth.KeyAuthToken))
	assert.Equal(t, "u1", stored(t, kv, auth.KeyUserID))
	assert.Empty(t, stored(t, kv, auth.KeyIsTestSession))
}

func TestBootstrapWithoutHostFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	authn := loginOK("t1", "u1")

	b := auth.NewBootstrapper(kv, auth.NoHost{}, authn)
	assert.Equal(t, auth.StateUninitialized, b.State())

	s := b.Bootstrap(ctx)

	assert.True(t, s.IsTestSession)
	assert.Regexp(t, uuidV4, s.UserID)
	assert.NotEmpty(t, s.AuthToken)
	assert.Zero(t, authn.calls.Load())
	assert.Equal(t, auth.StateAuthenticated, b.State())
	assert.Equal(t, s.UserID, stored(t, kv, auth.KeyUserID))
	assert.Equal(t, "true", stored(t, kv, auth.KeyIsTestSession))

	info := auth.DescribeToken(s.AuthToken)
	assert.False(t, info.Opaque)
	assert.True(t, info.Test)
	assert.Equal(t, s.UserID, info.Subject)
}

func TestBootstrapLoginFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, string) (*api.LoginResponse, error)
	}{
		{"network", func(context.Context, string) (*api.LoginResponse, error) {
			return nil, errors.New("connection refused")
		}},
		{"status", func(context.Context, string) (*api.LoginResponse, error) {
			return nil, &api.Error{Status: 500, Message: "boom"}
		}},
		{"missing token", func(context.Context, string) (*api.LoginResponse, error) {
			return &api.LoginResponse{User: api.LoginUser{ID: "u1"}}, nil
		}},
		{"missing user", func(context.Context, string) (*api.LoginResponse, error) {
			return &api.LoginResponse{Token: "t1"}, nil
		}},
		{"nil response", func(context.Context, string) (*api.LoginResponse, error) {
			return nil, nil
		}},
		{"panic", func(context.Context, string) (*api.LoginResponse, error) {
			panic("broken authenticator")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := &fakeAuthenticator{fn: tt.fn}
			b := auth.NewBootstrapper(storage.NewMemory(), auth.NewStaticHost("hash=h"), authn)

			s := b.Bootstrap(context.Background())

			assert.EqualValues(t, 1, authn.calls.Load())
			assert.True(t, s.IsTestSession)
			assert.Regexp(t, uuidV4, s.UserID)
		})
	}
}

func TestBootstrapAbandonsHungLogin(t *testing.T) {
	authn := &fakeAuthenticator{fn: func(ctx context.Context, _ string) (*api.LoginResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	b := auth.NewBootstrapper(storage.NewMemory(), auth.NewStaticHost("hash=h"), authn,
		auth.WithLoginTimeout(20*time.Millisecond))

	start := time.Now()
	s := b.Bootstrap(context.Background())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, s.IsTestSession)
}

func TestBootstrapIgnoresPartialSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, auth.KeyUserID, "orphan"))

	s := auth.NewBootstrapper(kv, auth.NewStaticHost("hash=h"), loginOK("t1", "u1")).Bootstrap(ctx)

	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "u1", stored(t, kv, auth.KeyUserID))
}

func TestBootstrapIDGeneratorFailure(t *testing.T) {
	b := auth.NewBootstrapper(storage.NewMemory(), nil, nil,
		auth.WithIDGenerator(func() (string, error) { return "", errors.New("no entropy") }))

	s := b.Bootstrap(context.Background())

	assert.Regexp(t, uuidV4, s.UserID)
	assert.True(t, s.IsTestSession)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("read failed")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("write failed") }
func (failingStore) Remove(context.Context, string) error      { return errors.New("remove failed") }

func TestBootstrapSurvivesStoreFailures(t *testing.T) {
	b := auth.NewBootstrapper(failingStore{}, auth.NewStaticHost("hash=h"), loginOK("t1", "u1"))

	s := b.Bootstrap(context.Background())

	assert.Equal(t, auth.Session{UserID: "u1", AuthToken: "t1"}, s)
	got, ok := b.Session()
	assert.True(t, ok)
	assert.Equal(t, s, got)
}

// flakyStore fails the first Get, then behaves like its inner store.
type flakyStore struct {
	auth.KeyValueStore
	failed atomic.Bool
}

func (f *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failed.CompareAndSwap(false, true) {
		return "", false, errors.New("connection reset")
	}
	return f.KeyValueStore.Get(ctx, key)
}

func TestBootstrapReadErrorKeepsPersistedSession(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	real := auth.Session{UserID: "real-user", AuthToken: "real-token"}
	require.NoError(t, auth.SaveSession(ctx, mem, real))
	kv := &flakyStore{KeyValueStore: mem}

	s := auth.NewBootstrapper(kv, nil, nil).Bootstrap(ctx)
	assert.True(t, s.IsTestSession)

	got, ok, err := auth.LoadSession(ctx, kv)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, real, got)

	again := auth.NewBootstrapper(kv, nil, nil).Bootstrap(ctx)
	assert.Equal(t, real, again)
}

func TestLogoutStartsOver(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	b := auth.NewBootstrapper(kv, nil, nil)

	first := b.Bootstrap(ctx)
	require.NoError(t, b.Logout(ctx))

	assert.Equal(t, auth.StateUninitialized, b.State())
	_, ok, err := auth.LoadSession(ctx, kv)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, stored(t, kv, auth.KeyIsTestSession))

	second := b.Bootstrap(ctx)
	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", auth.StateUninitialized.String())
	assert.Equal(t, "loading", auth.StateLoading.String())
	assert.Equal(t, "authenticated", auth.StateAuthenticated.String())
}
