// Package auth resolves the user's session from the Telegram host context.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInitData  = errors.New("invalid init data")
	ErrInitDataExpired  = errors.New("init data expired")
	ErrInitDataUnsigned = errors.New("init data has no hash")
)

// TelegramIdentity is the user the host reports. It is never modified here.
type TelegramIdentity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
}

// Initials returns up to two letters for an avatar placeholder.
func (t TelegramIdentity) Initials() string {
	return Initials(t.FirstName, t.LastName)
}

// Initials builds avatar letters from a first and last name; "?" stands in
// for a missing first name.
func Initials(first, last string) string {
	out := "?"
	if r := []rune(strings.TrimSpace(first)); len(r) > 0 {
		out = string(r[0])
	}
	if r := []rune(strings.TrimSpace(last)); len(r) > 0 {
		out += string(r[0])
	}
	return out
}

// InitData is the parsed launch payload of a Mini App.
type InitData struct {
	QueryID    string
	User       *TelegramIdentity
	AuthDate   time.Time
	StartParam string
	Hash       string
	Raw        string
}

// ParseInitData decodes a raw init data query string without checking its hash.
func ParseInitData(raw string) (*InitData, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidInitData)
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	data := &InitData{
		QueryID:    values.Get("query_id"),
		StartParam: values.Get("start_param"),
		Hash:       values.Get("hash"),
		Raw:        raw,
	}

	if u := values.Get("user"); u != "" {
		var user TelegramIdentity
		if err := json.Unmarshal([]byte(u), &user); err != nil {
			return nil, fmt.Errorf("%w: user: %v", ErrInvalidInitData, err)
		}
		data.User = &user
	}

	if ts := values.Get("auth_date"); ts != "" {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: auth_date: %v", ErrInvalidInitData, err)
		}
		data.AuthDate = time.Unix(sec, 0)
	}
	return data, nil
}

// NewInitDataValues builds the unsigned fields for a user at the given time.
func NewInitDataValues(user TelegramIdentity, at time.Time) (url.Values, error) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	values := url.Values{}
	values.Set("user", string(userJSON))
	values.Set("auth_date", strconv.FormatInt(at.Unix(), 10))
	return values, nil
}

// SignInitData adds the WebApp hash to values and returns the encoded query.
func SignInitData(values url.Values, botToken string) string {
	signed := url.Values{}
	for k, v := range values {
		if k == "hash" {
			continue
		}
		signed[k] = v
	}
	signed.Set("hash", computeHash(signed, botToken))
	return signed.Encode()
}

// ValidateInitData checks the hash of raw against botToken and, when maxAge
// is positive, that auth_date is not older than maxAge at now.
func ValidateInitData(raw, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	data, err := ParseInitData(raw)
	if err != nil {
		return nil, err
	}
	if data.Hash == "" {
		return nil, ErrInitDataUnsigned
	}

	values, _ := url.ParseQuery(data.Raw)
	want := computeHash(values, botToken)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(data.Hash))) {
		return nil, fmt.Errorf("%w: hash mismatch", ErrInvalidInitData)
	}

	if maxAge > 0 && now.Sub(data.AuthDate) > maxAge {
		return nil, ErrInitDataExpired
	}
	return data, nil
}

// --- Private ---

// dataCheckString joins every field except hash as sorted key=value lines.
func dataCheckString(values url.Values) string {
	fields := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		fields = append(fields, k+"="+values.Get(k))
	}
	sort.Strings(fields)
	return strings.Join(fields, "\n")
}

func computeHash(values url.Values, botToken string) string {
	// Secret = HMAC-SHA256(bot_token, key "WebAppData"); hash = HMAC-SHA256(check_string, secret)
	sk := hmac.New(sha256.New, []byte("WebAppData"))
	sk.Write([]byte(botToken))
	secret := sk.Sum(nil)

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(dataCheckString(values)))
	return hex.EncodeToString(h.Sum(nil))
}
