package users

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// DefaultHandler handles any unrecognized messages.
func DefaultHandler(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.Message == nil {
		return
	}
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	p.send(ctx, p.t("unknown_command"), nil)
}
