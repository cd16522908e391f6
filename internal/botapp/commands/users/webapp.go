package users

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleWebApp sends a button that opens the Mini App.
func HandleWebApp(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	if deps.WebAppURL == "" {
		p.send(ctx, p.t("webapp_not_configured"), nil)
		return
	}

	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: p.t("btn_open_app"), WebApp: &models.WebAppInfo{URL: deps.WebAppURL}}},
		},
	}
	p.send(ctx, p.t("webapp_prompt"), kb)
}
