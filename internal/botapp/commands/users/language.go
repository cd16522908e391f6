package users

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
	"github.com/dogjoy/miniapp/internal/i18n"
)

// HandleLanguage shows language selection buttons.
func HandleLanguage(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🇷🇺 Русский", CallbackData: cbLang + "ru"},
				{Text: "🇬🇧 English", CallbackData: cbLang + "en"},
			},
		},
	}
	p.send(ctx, p.t("choose_language"), keyboard)
}

// HandleLanguageCallback saves the chosen language and reopens the menu.
func HandleLanguageCallback(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.CallbackQuery == nil {
		return
	}
	cb := u.CallbackQuery

	// Parse "lang:ru" -> "ru"
	lang := strings.TrimPrefix(cb.Data, cbLang)
	if lang == cb.Data || !i18n.IsSupported(lang) {
		return
	}

	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	if err := commands.SetLanguage(ctx, deps, cb.From.ID, lang); err != nil {
		p.lg.Errorf("Save language: %v", err)
		answerCallback(ctx, b, cb.ID, errorMessage(p.lang, err), true)
		return
	}

	p.lang = lang
	answerCallback(ctx, b, cb.ID, p.t("language_set"), false)
	deleteMessage(ctx, b, cb)
	sendWelcome(ctx, p)
	p.lg.Infof("Language changed to %s", lang)
}
