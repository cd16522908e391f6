package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":      "ru",
		"ru":    "ru",
		"en":    "en",
		"en-US": "en",
		"fa":    "ru",
		"bogus": "ru",
	}
	for code, want := range tests {
		assert.Equal(t, want, Normalize(code), code)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Choose a language:", T(Localizer("en"), "choose_language"))
	assert.Equal(t, "Выберите язык:", T(Localizer("ru"), "choose_language"))
	assert.Equal(t, "missing_key", T(Localizer("en"), "missing_key"))
	assert.Equal(t, "Pets: 2, orders: 0",
		TWithData(Localizer("en"), "profile_counts", map[string]any{"Pets": 2, "Orders": 0}))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := localeFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}
	ru, en := load("ru.json"), load("en.json")
	for k := range ru {
		assert.Contains(t, en, k)
	}
	for k := range en {
		assert.Contains(t, ru, k)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1,299 ₽", FormatPrice("en", 1299))
	assert.Equal(t, "99.50 ₽", FormatPrice("en", 99.5))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("ru"))
	assert.True(t, IsSupported("en"))
	assert.False(t, IsSupported("fa"))
}
