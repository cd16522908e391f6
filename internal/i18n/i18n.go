// Package i18n provides internationalization support using go-i18n.
package i18n

import (
	"embed"
	"encoding/json"
	"math"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localeFS embed.FS

// Bundle holds all loaded translations.
var bundle *i18n.Bundle

// Supported language tags. The first one is the default.
var (
	Russian = language.Russian
	English = language.English

	supported = []language.Tag{Russian, English}
	matcher   = language.NewMatcher(supported)
)

func init() {
	bundle = i18n.NewBundle(Russian)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, f := range []string{"ru.json", "en.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+f); err != nil {
			panic("i18n: load " + f + ": " + err.Error())
		}
	}
}

// Localizer creates a localizer for the given Telegram language code.
func Localizer(telegramLangCode string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, Normalize(telegramLangCode))
}

// T translates a message ID using the provided localizer.
func T(loc *i18n.Localizer, messageID string) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		// Fallback: return the message ID itself
		return messageID
	}
	return msg
}

// TWithData translates a message with template data.
func TWithData(loc *i18n.Localizer, messageID string, data map[string]any) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

// FromTelegram converts Telegram's language_code to a supported language.Tag.
// Unsupported languages get the default.
func FromTelegram(code string) language.Tag {
	if code == "" {
		return supported[0]
	}
	tag, _ := language.Parse(code)
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Normalize maps a Telegram language code to "ru" or "en".
func Normalize(code string) string {
	base, _ := FromTelegram(code).Base()
	return base.String()
}

// IsSupported reports whether code names one of the bundled languages.
func IsSupported(code string) bool {
	for _, t := range supported {
		if base, _ := t.Base(); base.String() == code {
			return true
		}
	}
	return false
}

// FormatPrice renders an amount in roubles with the language's digit grouping.
func FormatPrice(code string, amount float64) string {
	p := message.NewPrinter(FromTelegram(code))
	if amount == math.Trunc(amount) {
		return p.Sprintf("%d ₽", int64(amount))
	}
	return p.Sprintf("%.2f ₽", amount)
}
