package users

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandleLogout forgets the user's session. It is registered without the
// session middleware so it never bootstraps a session just to drop it.
func HandleLogout(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}
	if err := commands.Bootstrapper(deps, p.user).Logout(ctx); err != nil {
		p.fail(ctx, "logout", err)
		return
	}
	p.send(ctx, p.t("logout_done"), nil)
	p.lg.Infof("Logged out")
}
