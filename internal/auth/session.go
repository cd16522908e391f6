package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Keys under which a Session is persisted.
const (
	KeyAuthToken     = "authToken"
	KeyUserID        = "userId"
	KeyIsTestSession = "isTestSession"
)

// Session is the authenticated identity every API call is made with.
type Session struct {
	UserID        string
	AuthToken     string
	IsTestSession bool
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.UserID != "" && s.AuthToken != ""
}

// KeyValueStore is the simple persistence the session lives in.
// Values never expire.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// LoadSession reads a persisted session. ok is false unless both the user id
// and the token are stored.
func LoadSession(ctx context.Context, kv KeyValueStore) (Session, bool, error) {
	token, _, err := kv.Get(ctx, KeyAuthToken)
	if err != nil {
		return Session{}, false, fmt.Errorf("get %s: %w", KeyAuthToken, err)
	}
	userID, _, err := kv.Get(ctx, KeyUserID)
	if err != nil {
		return Session{}, false, fmt.Errorf("get %s: %w", KeyUserID, err)
	}

	s := Session{UserID: userID, AuthToken: token}
	if !s.Valid() {
		return Session{}, false, nil
	}

	// The flag is optional; an unreadable value means a regular session.
	if raw, ok, err := kv.Get(ctx, KeyIsTestSession); err == nil && ok {
		s.IsTestSession, _ = strconv.ParseBool(raw)
	}
	return s, true, nil
}

// SaveSession persists s. The test flag is only stored for test sessions.
func SaveSession(ctx context.Context, kv KeyValueStore, s Session) error {
	if err := kv.Set(ctx, KeyAuthToken, s.AuthToken); err != nil {
		return fmt.Errorf("set %s: %w", KeyAuthToken, err)
	}
	if err := kv.Set(ctx, KeyUserID, s.UserID); err != nil {
		return fmt.Errorf("set %s: %w", KeyUserID, err)
	}
	if s.IsTestSession {
		if err := kv.Set(ctx, KeyIsTestSession, "true"); err != nil {
			return fmt.Errorf("set %s: %w", KeyIsTestSession, err)
		}
		return nil
	}
	if err := kv.Remove(ctx, KeyIsTestSession); err != nil {
		return fmt.Errorf("remove %s: %w", KeyIsTestSession, err)
	}
	return nil
}

// ClearSession removes every persisted session key.
func ClearSession(ctx context.Context, kv KeyValueStore) error {
	var errs []error
	for _, key := range []string{KeyAuthToken, KeyUserID, KeyIsTestSession} {
		if err := kv.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
