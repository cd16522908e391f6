package auth_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogjoy/miniapp/internal/auth"
)

const botToken = "123456:TEST-token"

func signedInitData(t *testing.T, at time.Time) string {
	t.Helper()
	values, err := auth.NewInitDataValues(auth.TelegramIdentity{ID: 42, FirstName: "Анна", LastName: "Петрова"}, at)
	require.NoError(t, err)
	values.Set("query_id", "AAH")
	return auth.SignInitData(values, botToken)
}

func TestValidateInitData(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := signedInitData(t, now)

	data, err := auth.ValidateInitData(raw, botToken, time.Hour, now.Add(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, data.User)
	assert.EqualValues(t, 42, data.User.ID)
	assert.Equal(t, "Анна", data.User.FirstName)
	assert.Equal(t, "AAH", data.QueryID)
	assert.Equal(t, now.Unix(), data.AuthDate.Unix())
}

func TestValidateInitDataRejectsTampering(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	values, err := url.ParseQuery(signedInitData(t, now))
	require.NoError(t, err)
	values.Set("query_id", "other")

	_, err = auth.ValidateInitData(values.Encode(), botToken, 0, now)
	assert.ErrorIs(t, err, auth.ErrInvalidInitData)

	_, err = auth.ValidateInitData(signedInitData(t, now), "999:other", 0, now)
	assert.ErrorIs(t, err, auth.ErrInvalidInitData)
}

func TestValidateInitDataExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw := signedInitData(t, now)

	_, err := auth.ValidateInitData(raw, botToken, time.Hour, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, auth.ErrInitDataExpired)

	_, err = auth.ValidateInitData(raw, botToken, 0, now.Add(48*time.Hour))
	assert.NoError(t, err)
}

func TestValidateInitDataUnsigned(t *testing.T) {
	_, err := auth.ValidateInitData("auth_date=1", botToken, 0, time.Now())
	assert.ErrorIs(t, err, auth.ErrInitDataUnsigned)
}

func TestParseInitDataErrors(t *testing.T) {
	for _, raw := range []string{"", "  ", "user=%7Bnot-json", "auth_date=yesterday", "a=%zz"} {
		_, err := auth.ParseInitData(raw)
		assert.ErrorIs(t, err, auth.ErrInvalidInitData, raw)
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "?", auth.Initials("", ""))
	assert.Equal(t, "?П", auth.Initials(" ", "Петров"))
	assert.Equal(t, "АП", auth.TelegramIdentity{FirstName: "Анна", LastName: "Петрова"}.Initials())
	assert.Equal(t, "J", auth.Initials("John", ""))
}

func TestHosts(t *testing.T) {
	_, ok := auth.NoHost{}.InitData()
	assert.False(t, ok)

	empty := auth.NewStaticHost("   ")
	_, ok = empty.InitData()
	assert.False(t, ok)

	now := time.Now()
	static := auth.NewStaticHost(signedInitData(t, now))
	raw, ok := static.InitData()
	assert.True(t, ok)
	assert.True(t, strings.Contains(raw, "hash="))
	user, ok := static.User()
	assert.True(t, ok)
	assert.EqualValues(t, 42, user.ID)

	signed := auth.NewSignedHost(auth.TelegramIdentity{ID: 7, FirstName: "Bob"}, botToken)
	raw, ok = signed.InitData()
	require.True(t, ok)
	data, err := auth.ValidateInitData(raw, botToken, time.Minute, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 7, data.User.ID)

	_, ok = auth.NewSignedHost(auth.TelegramIdentity{ID: 7}, "").InitData()
	assert.False(t, ok)
}

func TestDescribeOpaqueToken(t *testing.T) {
	info := auth.DescribeToken("backend-opaque-token")
	assert.True(t, info.Opaque)
	assert.False(t, info.Expired(time.Now()))
}
