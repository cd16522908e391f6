package users

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleMenuCallback opens a section from the main menu.
func HandleMenuCallback(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.CallbackQuery == nil {
		return
	}
	cb := u.CallbackQuery

	// Parse "menu:action"
	action := strings.TrimPrefix(cb.Data, cbMenu)
	if action == cb.Data {
		return
	}

	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	answerCallback(ctx, b, cb.ID, "", false)
	p.lg.Debugf("Menu callback: %s", action)

	switch action {
	case "services":
		showServices(ctx, p)
	case "tariffs":
		showTariffs(ctx, p)
	case "profile":
		showProfile(ctx, p)
	case "pets":
		showPets(ctx, p)
	case "orders":
		showOrders(ctx, p)
	case "back":
		sendWelcome(ctx, p)
	default:
		p.lg.Warnf("Unknown menu action: %s", action)
	}
}
