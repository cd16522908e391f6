package users

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/botapp/commands"
	"github.com/dogjoy/miniapp/internal/i18n"
	"github.com/dogjoy/miniapp/internal/logger"
)

// page is what every handler needs to answer one update.
type page struct {
	b      *bot.Bot
	deps   commands.Deps
	user   *models.User
	chatID int64
	lang   string
	sess   auth.Session
	lg     logger.TgLogger
}

func newPage(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) (page, bool) {
	user := commands.UserFromUpdate(u)
	chatID := commands.ChatIDFromUpdate(u)
	if user == nil || chatID == 0 {
		return page{}, false
	}
	sess, _ := commands.SessionFrom(ctx)
	return page{
		b:      b,
		deps:   deps,
		user:   user,
		chatID: chatID,
		lang:   commands.Language(ctx, deps, user),
		sess:   sess,
		lg:     logger.ForUpdate(u),
	}, true
}

func (p page) t(key string) string {
	return i18n.T(i18n.Localizer(p.lang), key)
}

func (p page) tData(key string, data map[string]any) string {
	return i18n.TWithData(i18n.Localizer(p.lang), key, data)
}

func (p page) send(ctx context.Context, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: p.chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := p.b.SendMessage(ctx, params); err != nil {
		p.lg.Warnf("send message: %v", err)
	}
}

// fail logs err and answers with its localized message.
func (p page) fail(ctx context.Context, what string, err error) {
	p.lg.Errorf("%s: %v", what, err)
	p.send(ctx, errorMessage(p.lang, err), nil)
}

func answerCallback(ctx context.Context, b *bot.Bot, id, text string, alert bool) {
	_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            text,
		ShowAlert:       alert,
	})
}

func deleteMessage(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	if cb.Message.Message != nil {
		_, _ = b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    cb.Message.Message.Chat.ID,
			MessageID: cb.Message.Message.ID,
		})
	}
}
