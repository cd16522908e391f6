package commands

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/i18n"
	"github.com/dogjoy/miniapp/internal/logger"
)

// keyLang is stored next to the session keys and survives logout.
const keyLang = "lang"

// Language returns the user's saved language, or the one Telegram reports.
func Language(ctx context.Context, deps Deps, user *models.User) string {
	if user == nil {
		return i18n.Normalize("")
	}
	if deps.Store != nil {
		lang, ok, err := UserStore(deps, user.ID).Get(ctx, keyLang)
		if err != nil {
			logger.ForUser(user.ID).Warnf("read language: %v", err)
		}
		if ok && i18n.IsSupported(lang) {
			return lang
		}
	}
	return i18n.Normalize(user.LanguageCode)
}

// SetLanguage saves the user's language choice.
func SetLanguage(ctx context.Context, deps Deps, userID int64, lang string) error {
	return UserStore(deps, userID).Set(ctx, keyLang, i18n.Normalize(lang))
}
