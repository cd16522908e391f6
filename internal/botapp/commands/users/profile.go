package users

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleProfile shows the profile page, creating the profile on first visit.
func HandleProfile(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if p, ok := newPage(ctx, b, u, deps); ok {
		showProfile(ctx, p)
	}
}

func showProfile(ctx context.Context, p page) {
	identity := commands.IdentityFromUser(p.user)
	view, err := p.deps.Profiles.Load(ctx, p.sess, &identity)
	if err != nil {
		p.fail(ctx, "load profile", err)
		return
	}
	p.send(ctx, formatProfile(p.lang, view), nil)
}
