package users

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleStart greets the user and shows the main menu.
func HandleStart(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	sendWelcome(ctx, p)
	p.lg.Infof("Start command handled")
}

func sendWelcome(ctx context.Context, p page) {
	name := strings.TrimSpace(p.user.FirstName)
	if name == "" {
		name = p.user.Username
	}
	text := p.tData("welcome", map[string]any{"Name": name}) + "\n\n" + p.t("select_option")
	if p.sess.IsTestSession {
		text += "\n\n" + p.t("test_session_note")
	}
	p.send(ctx, text, mainMenu(p))
}

func mainMenu(p page) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{
			{Text: p.t("btn_services"), CallbackData: cbMenu + "services"},
			{Text: p.t("btn_tariffs"), CallbackData: cbMenu + "tariffs"},
		},
		{
			{Text: p.t("btn_profile"), CallbackData: cbMenu + "profile"},
			{Text: p.t("btn_pets"), CallbackData: cbMenu + "pets"},
			{Text: p.t("btn_orders"), CallbackData: cbMenu + "orders"},
		},
	}
	if p.deps.WebAppURL != "" {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: p.t("btn_open_app"), WebApp: &models.WebAppInfo{URL: p.deps.WebAppURL}},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
