package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/storage"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	k := NewKeyedMutex()
	var active, maxActive atomic.Int32
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(1)
			defer unlock()
			n := active.Add(1)
			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxActive.Load())
	assert.Zero(t, k.size())
}

func TestKeyedMutexKeysAreIndependent(t *testing.T) {
	k := NewKeyedMutex()
	unlock := k.Lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		k.Lock(2)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}
}

func newDeps(t *testing.T, handler http.HandlerFunc) Deps {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return Deps{
		BotToken:     "123:test",
		LoginTimeout: time.Second,
		Store:        storage.NewMemory(),
		API:          api.NewClient(srv.URL, time.Second),
		Locks:        NewKeyedMutex(),
	}
}

func TestWithSessionLogsInWithSignedInitData(t *testing.T) {
	var logins atomic.Int32
	deps := newDeps(t, func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		var req api.LoginRequest
		_ = decodeJSON(r, &req)
		data, err := auth.ValidateInitData(req.InitData, "123:test", time.Minute, time.Now())
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"token":"tok","user":{"id":` + itoa(data.User.ID) + `}}`))
	})

	update := &models.Update{Message: &models.Message{
		From: &models.User{ID: 42, FirstName: "Anna"},
		Chat: models.Chat{ID: 42},
	}}

	var got []auth.Session
	h := Chain(WithRecover, WithSession)(func(ctx context.Context, _ *bot.Bot, _ *models.Update, _ Deps) {
		s, ok := SessionFrom(ctx)
		require.True(t, ok)
		got = append(got, s)
	})

	h(context.Background(), nil, update, deps)
	h(context.Background(), nil, update, deps)

	require.Len(t, got, 2)
	assert.Equal(t, auth.Session{UserID: "42", AuthToken: "tok"}, got[0])
	assert.Equal(t, got[0], got[1])
	assert.EqualValues(t, 1, logins.Load())

	v, ok, err := deps.Store.Get(context.Background(), "tg:42:authToken")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestWithSessionFallsBackWhenBackendFails(t *testing.T) {
	deps := newDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	update := &models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 7}}}

	var got auth.Session
	WithSession(func(ctx context.Context, _ *bot.Bot, _ *models.Update, _ Deps) {
		got, _ = SessionFrom(ctx)
	})(context.Background(), nil, update, deps)

	assert.True(t, got.IsTestSession)
	assert.NotEmpty(t, got.UserID)
}

func TestWithRecoverSwallowsPanics(t *testing.T) {
	h := WithRecover(func(context.Context, *bot.Bot, *models.Update, Deps) { panic("boom") })
	assert.NotPanics(t, func() { h(context.Background(), nil, &models.Update{}, Deps{}) })
}

func TestLanguage(t *testing.T) {
	ctx := context.Background()
	deps := Deps{Store: storage.NewMemory()}
	user := &models.User{ID: 5, LanguageCode: "en"}

	assert.Equal(t, "en", Language(ctx, deps, user))
	require.NoError(t, SetLanguage(ctx, deps, 5, "ru"))
	assert.Equal(t, "ru", Language(ctx, deps, user))
	assert.Equal(t, "ru", Language(ctx, deps, nil))
}

func TestChatIDFromUpdate(t *testing.T) {
	assert.Zero(t, ChatIDFromUpdate(nil))
	assert.EqualValues(t, 10, ChatIDFromUpdate(&models.Update{Message: &models.Message{Chat: models.Chat{ID: 10}}}))
	assert.EqualValues(t, 11, ChatIDFromUpdate(&models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 11}}}))
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
