package users

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleServices lists the service catalog.
func HandleServices(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if p, ok := newPage(ctx, b, u, deps); ok {
		showServices(ctx, p)
	}
}

// HandleTariffs lists tariffs with a Subscribe button each.
func HandleTariffs(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if p, ok := newPage(ctx, b, u, deps); ok {
		showTariffs(ctx, p)
	}
}

// HandleTariffCallback creates a payment for the chosen tariff and replies
// with a Pay-now button.
func HandleTariffCallback(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.CallbackQuery == nil {
		return
	}
	cb := u.CallbackQuery

	// Parse "tariff:sub:<id>"
	tariffID := strings.TrimPrefix(cb.Data, cbTariff+tariffSub)
	if tariffID == cb.Data || tariffID == "" {
		return
	}

	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	answerCallback(ctx, b, cb.ID, "", false)
	p.lg.Debugf("Subscribe callback: tariff=%s", tariffID)

	tariff, err := deps.Catalog.Tariff(ctx, p.sess, tariffID)
	if err != nil {
		p.lg.Warnf("tariff %s: %v", tariffID, err)
		p.send(ctx, p.t("tariff_not_found"), nil)
		return
	}

	url, err := deps.Billing.Subscribe(ctx, p.sess, *tariff)
	if err != nil {
		p.lg.Errorf("subscribe to %s: %v", tariffID, err)
		msg := errorMessage(p.lang, err)
		if msg == p.t("error_generic") {
			msg = p.t("payment_failed")
		}
		p.send(ctx, msg, nil)
		return
	}

	p.send(ctx, p.tData("payment_ready", map[string]any{"Name": tariff.Name}), payKeyboard(p.lang, url))
	p.lg.Infof("Payment link sent for tariff %s", tariffID)
}

func showServices(ctx context.Context, p page) {
	services, fallback := p.deps.Catalog.Services(ctx, p.sess)
	p.send(ctx, formatServices(p.lang, services, fallback), nil)
}

func showTariffs(ctx context.Context, p page) {
	tariffs, fallback := p.deps.Catalog.Tariffs(ctx, p.sess)
	p.send(ctx, formatTariffs(p.lang, tariffs, fallback), tariffsKeyboard(p.lang, tariffs))
}
