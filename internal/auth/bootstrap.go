package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/logger"
	"github.com/dogjoy/miniapp/internal/metrics"
)

const DefaultLoginTimeout = 10 * time.Second

var errEmptyLogin = errors.New("login response without token or user id")

// State of a Bootstrapper. There is no failed state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "uninitialized"
	}
}

// Authenticator exchanges host init data for a backend session.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, initData string) (*api.LoginResponse, error)
}

// Bootstrapper resolves the session once per launch: the persisted one,
// then a login with the host's init data, then a synthesized test identity.
type Bootstrapper struct {
	store   KeyValueStore
	host    HostContextProvider
	authn   Authenticator
	timeout time.Duration
	newID   func() (string, error)
	now     func() time.Time
	log     logger.TgLogger

	run     sync.Mutex
	mu      sync.RWMutex
	state   State
	session Session
}

type Option func(*Bootstrapper)

// WithLoginTimeout bounds the login exchange. Zero or negative disables it.
func WithLoginTimeout(d time.Duration) Option {
	return func(b *Bootstrapper) { b.timeout = d }
}

// WithIDGenerator replaces the v4 UUID source of fallback identities.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(b *Bootstrapper) { b.newID = fn }
}

func WithLogger(l logger.TgLogger) Option {
	return func(b *Bootstrapper) { b.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(b *Bootstrapper) { b.now = now }
}

// NewBootstrapper wires the store and host. A nil host means NoHost, a nil
// authenticator skips the login step.
func NewBootstrapper(store KeyValueStore, host HostContextProvider, authn Authenticator, opts ...Option) *Bootstrapper {
	if host == nil {
		host = NoHost{}
	}
	b := &Bootstrapper{
		store:   store,
		host:    host,
		authn:   authn,
		timeout: DefaultLoginTimeout,
		newID:   newUUID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bootstrapper) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Session returns the last resolved session, if any.
func (b *Bootstrapper) Session() (Session, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session, b.state == StateAuthenticated
}

// Bootstrap always returns a usable session. Calls are serialized.
func (b *Bootstrapper) Bootstrap(ctx context.Context) Session {
	b.run.Lock()
	defer b.run.Unlock()

	b.setState(StateLoading, Session{})

	s, ok, readErr := b.persisted(ctx)
	if ok {
		b.log.Debugf("session restored for user %s", s.UserID)
		return b.finish(ctx, s, "persisted", false)
	}
	// An unreadable store may still hold a real session; never overwrite it.
	persist := readErr == nil

	if s, ok := b.login(ctx); ok {
		b.log.Infof("logged in as user %s", s.UserID)
		return b.finish(ctx, s, "login", persist)
	}

	s = b.fallback()
	b.log.Warnf("using test session %s", s.UserID)
	return b.finish(ctx, s, "fallback", persist)
}

// Logout forgets the persisted session. The next Bootstrap starts over.
func (b *Bootstrapper) Logout(ctx context.Context) error {
	b.run.Lock()
	defer b.run.Unlock()

	err := ClearSession(ctx, b.store)
	b.setState(StateUninitialized, Session{})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// --- Private ---

func (b *Bootstrapper) setState(st State, s Session) {
	b.mu.Lock()
	b.state = st
	b.session = s
	b.mu.Unlock()
}

func (b *Bootstrapper) finish(ctx context.Context, s Session, outcome string, persist bool) Session {
	if persist {
		if err := SaveSession(ctx, b.store, s); err != nil {
			b.log.Errorf("persist session: %v", err)
		}
	}
	metrics.BootstrapTotal.WithLabelValues(outcome).Inc()
	b.setState(StateAuthenticated, s)
	return s
}

func (b *Bootstrapper) persisted(ctx context.Context) (Session, bool, error) {
	s, ok, err := LoadSession(ctx, b.store)
	if err != nil {
		b.log.Warnf("read session: %v", err)
		return Session{}, false, err
	}
	return s, ok, nil
}

func (b *Bootstrapper) login(ctx context.Context) (s Session, ok bool) {
	if b.authn == nil {
		return Session{}, false
	}
	initData, present := b.host.InitData()
	if !present || strings.TrimSpace(initData) == "" {
		b.log.Debugf("no host init data")
		return Session{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.LoginFailures.WithLabelValues("panic").Inc()
			b.log.Errorf("login panicked: %v", r)
			s, ok = Session{}, false
		}
	}()

	loginCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		loginCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	resp, err := b.authn.Login(loginCtx, initData)
	if err == nil && (resp == nil || resp.Token == "" || resp.User.ID == "") {
		err = errEmptyLogin
	}
	if err != nil {
		metrics.LoginFailures.WithLabelValues(loginFailureReason(loginCtx, err)).Inc()
		b.log.Warnf("login failed: %v", err)
		return Session{}, false
	}

	return Session{UserID: resp.User.ID.String(), AuthToken: resp.Token}, true
}

func (b *Bootstrapper) fallback() Session {
	id, err := b.newID()
	if err != nil || id == "" {
		b.log.Warnf("generate user id: %v", err)
		id = pseudoRandomUUID()
	}
	return Session{
		UserID:        id,
		AuthToken:     synthesizeToken(id, b.now()),
		IsTestSession: true,
	}
}

func loginFailureReason(ctx context.Context, err error) string {
	var apiErr *api.Error
	switch {
	case errors.Is(err, errEmptyLogin):
		return "malformed"
	case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &apiErr):
		return "status"
	default:
		return "network"
	}
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// pseudoRandomUUID is a v4 UUID from a non-cryptographic source, used only
// when the system entropy source fails.
func pseudoRandomUUID() string {
	var u uuid.UUID
	for i := range u {
		u[i] = byte(rand.Uint32())
	}
	u[6] = (u[6] & 0x0f) | 0x40
	u[8] = (u[8] & 0x3f) | 0x80
	return u.String()
}
