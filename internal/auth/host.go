package auth

import (
	"strings"
	"time"
)

// HostContextProvider exposes the launch parameters of the embedding host.
// A missing host reports false from both methods.
type HostContextProvider interface {
	InitData() (string, bool)
	User() (TelegramIdentity, bool)
}

// NoHost is the non-Telegram environment.
type NoHost struct{}

func (NoHost) InitData() (string, bool)       { return "", false }
func (NoHost) User() (TelegramIdentity, bool) { return TelegramIdentity{}, false }

// StaticHost serves init data handed over by the embedding shell as is.
type StaticHost struct {
	raw string
}

func NewStaticHost(raw string) StaticHost {
	return StaticHost{raw: strings.TrimSpace(raw)}
}

func (h StaticHost) InitData() (string, bool) {
	return h.raw, h.raw != ""
}

func (h StaticHost) User() (TelegramIdentity, bool) {
	if h.raw == "" {
		return TelegramIdentity{}, false
	}
	data, err := ParseInitData(h.raw)
	if err != nil || data.User == nil {
		return TelegramIdentity{}, false
	}
	return *data.User, true
}

// SignedHost produces init data for a known Telegram user, signed with the
// bot token the way Telegram signs Mini App launches.
type SignedHost struct {
	user     TelegramIdentity
	botToken string
	now      func() time.Time
}

func NewSignedHost(user TelegramIdentity, botToken string) *SignedHost {
	return &SignedHost{user: user, botToken: botToken, now: time.Now}
}

func (h *SignedHost) InitData() (string, bool) {
	if h.user.ID == 0 || h.botToken == "" {
		return "", false
	}
	values, err := NewInitDataValues(h.user, h.now())
	if err != nil {
		return "", false
	}
	return SignInitData(values, h.botToken), true
}

func (h *SignedHost) User() (TelegramIdentity, bool) {
	return h.user, h.user.ID != 0
}
