package users

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleOrders lists the user's order history.
func HandleOrders(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if p, ok := newPage(ctx, b, u, deps); ok {
		showOrders(ctx, p)
	}
}

// HandleCancel asks for confirmation before cancelling the subscription.
func HandleCancel(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: p.t("btn_cancel_confirm"), CallbackData: cbCancel}},
		},
	}
	p.send(ctx, p.t("cancel_prompt"), kb)
}

// HandleCancelCallback cancels the subscription once confirmed.
func HandleCancelCallback(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.CallbackQuery == nil || u.CallbackQuery.Data != cbCancel {
		return
	}
	cb := u.CallbackQuery
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}

	if err := deps.Billing.CancelSubscription(ctx, p.sess); err != nil {
		answerCallback(ctx, b, cb.ID, "", false)
		p.fail(ctx, "cancel subscription", err)
		return
	}
	answerCallback(ctx, b, cb.ID, "", false)
	deleteMessage(ctx, b, cb)
	p.send(ctx, p.t("cancel_done"), nil)
	p.lg.Infof("Subscription cancelled")
}

func showOrders(ctx context.Context, p page) {
	orders, err := p.deps.Billing.Orders(ctx, p.sess)
	if err != nil {
		p.fail(ctx, "list orders", err)
		return
	}
	p.send(ctx, formatOrders(p.lang, orders), nil)
}
