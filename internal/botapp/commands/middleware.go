// Package commands provides command handler types, middleware, and shared dependencies.
package commands

import (
	"context"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/logger"
	"github.com/dogjoy/miniapp/internal/storage"
)

// HandlerFunc is the standard signature for all command handlers.
type HandlerFunc func(ctx context.Context, b *bot.Bot, u *models.Update, deps Deps)

// Middleware wraps a handler to add functionality.
type Middleware func(HandlerFunc) HandlerFunc

type sessionKey struct{}

// WithSession bootstraps the sender's session before the handler runs and
// puts it in the context. Bootstraps of one user never overlap.
func WithSession(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, u *models.Update, deps Deps) {
		user := UserFromUpdate(u)
		if user == nil {
			next(ctx, b, u, deps)
			return
		}

		sess := Bootstrapper(deps, user).Bootstrap(ctx)
		next(context.WithValue(ctx, sessionKey{}, sess), b, u, deps)
	}
}

// WithRecover keeps one failing update from taking the bot down.
func WithRecover(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, u *models.Update, deps Deps) {
		defer func() {
			if r := recover(); r != nil {
				logger.ForUpdate(u).Errorf("handler panic: %v\n%s", r, debug.Stack())
			}
		}()
		next(ctx, b, u, deps)
	}
}

// Chain combines multiple middleware into a single middleware.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// SessionFrom returns the session WithSession resolved.
func SessionFrom(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(auth.Session)
	return s, ok
}

// UserStore is the slice of the shared store that belongs to one user.
func UserStore(deps Deps, userID int64) *storage.Namespaced {
	return storage.ForTelegramUser(deps.Store, userID)
}

// Bootstrapper builds the session bootstrapper of a Telegram user: init data
// signed with the bot token, persisted in the user's namespace. Calls on the
// returned value are serialized per user through deps.Locks.
func Bootstrapper(deps Deps, user *models.User) *LockedBootstrapper {
	var authn auth.Authenticator
	if deps.API != nil {
		authn = deps.API
	}
	host := auth.NewSignedHost(IdentityFromUser(user), deps.BotToken)
	return &LockedBootstrapper{
		inner: auth.NewBootstrapper(UserStore(deps, user.ID), host, authn,
			auth.WithLoginTimeout(deps.LoginTimeout),
			auth.WithLogger(logger.ForUser(user.ID)),
		),
		locks:  deps.Locks,
		userID: user.ID,
	}
}

// LockedBootstrapper runs a user's bootstrap and logout under the user's lock.
type LockedBootstrapper struct {
	inner  *auth.Bootstrapper
	locks  *KeyedMutex
	userID int64
}

func (l *LockedBootstrapper) Bootstrap(ctx context.Context) auth.Session {
	defer l.lock()()
	return l.inner.Bootstrap(ctx)
}

func (l *LockedBootstrapper) Logout(ctx context.Context) error {
	defer l.lock()()
	return l.inner.Logout(ctx)
}

func (l *LockedBootstrapper) lock() func() {
	if l.locks == nil {
		return func() {}
	}
	return l.locks.Lock(l.userID)
}

// --- Helpers ---

// IdentityFromUser converts a Telegram user to the host identity.
func IdentityFromUser(user *models.User) auth.TelegramIdentity {
	return auth.TelegramIdentity{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Username:     user.Username,
		LanguageCode: user.LanguageCode,
		IsPremium:    user.IsPremium,
	}
}

// UserFromUpdate extracts the user from any update type.
func UserFromUpdate(u *models.Update) *models.User {
	if u == nil {
		return nil
	}
	if u.Message != nil {
		return u.Message.From
	}
	if u.CallbackQuery != nil {
		return &u.CallbackQuery.From
	}
	return nil
}

// ChatIDFromUpdate extracts the chat ID from any update type.
func ChatIDFromUpdate(u *models.Update) int64 {
	if u == nil {
		return 0
	}
	if u.Message != nil {
		return u.Message.Chat.ID
	}
	if u.CallbackQuery != nil {
		if m := u.CallbackQuery.Message.Message; m != nil {
			return m.Chat.ID
		}
		return u.CallbackQuery.From.ID
	}
	return 0
}
