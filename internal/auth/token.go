package auth

import (
	"crypto/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testTokenIssuer = "miniapp-local"

// testClaims mark a locally synthesized token. The backend never issued it.
type testClaims struct {
	Test bool `json:"test"`
	jwt.RegisteredClaims
}

// signingKey is random per process; synthesized tokens are never verified.
var signingKey = func() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil
	}
	return key
}()

func synthesizeToken(userID string, now time.Time) string {
	claims := testClaims{
		Test: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   testTokenIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if len(signingKey) == 0 {
		return "test-" + userID
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "test-" + userID
	}
	return signed
}

// TokenInfo is what can be read from a token without verifying it.
type TokenInfo struct {
	Opaque    bool      `json:"opaque"`
	Subject   string    `json:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	IssuedAt  time.Time `json:"issuedAt,omitzero"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	Test      bool      `json:"test"`
}

// DescribeToken decodes the claims of a JWT without checking its signature.
// Anything that is not a JWT is reported as opaque.
func DescribeToken(token string) TokenInfo {
	var claims testClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{Opaque: true}
	}

	info := TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		Test:    claims.Test,
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}

// Expired reports whether the token carries an expiry that has passed.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}
