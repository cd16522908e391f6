package users

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
)

// HandlePets lists the user's pets with a delete button each.
func HandlePets(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if p, ok := newPage(ctx, b, u, deps); ok {
		showPets(ctx, p)
	}
}

// HandleAddPet handles "/addpet name; breed; age[; description]".
func HandleAddPet(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.Message == nil {
		return
	}
	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}

	in, err := parseAddPet(commandArgs(u.Message.Text))
	if err != nil {
		p.send(ctx, p.t("addpet_usage"), nil)
		return
	}

	pet, err := deps.Pets.Add(ctx, p.sess, in)
	if err != nil {
		p.fail(ctx, "add pet", err)
		return
	}
	name := pet.Name
	if name == "" {
		name = in.Name
	}
	p.send(ctx, p.tData("pet_added", map[string]any{"Name": name}), nil)
	p.lg.Infof("Pet %s added", pet.ID)
}

// HandlePetCallback handles "pet:del:<id>".
func HandlePetCallback(ctx context.Context, b *bot.Bot, u *models.Update, deps commands.Deps) {
	if u.CallbackQuery == nil {
		return
	}
	cb := u.CallbackQuery

	petID := strings.TrimPrefix(cb.Data, cbPet+petDelete)
	if petID == cb.Data || petID == "" {
		return
	}

	p, ok := newPage(ctx, b, u, deps)
	if !ok {
		return
	}

	if err := deps.Pets.Delete(ctx, p.sess, petID); err != nil {
		answerCallback(ctx, b, cb.ID, errorMessage(p.lang, err), true)
		p.lg.Errorf("delete pet %s: %v", petID, err)
		return
	}
	answerCallback(ctx, b, cb.ID, p.t("pet_deleted"), false)
	deleteMessage(ctx, b, cb)
	showPets(ctx, p)
}

func showPets(ctx context.Context, p page) {
	pets, err := p.deps.Pets.List(ctx, p.sess)
	if err != nil {
		p.fail(ctx, "list pets", err)
		return
	}
	if kb := petsKeyboard(p.lang, pets); kb != nil {
		p.send(ctx, formatPets(p.lang, pets), kb)
		return
	}
	p.send(ctx, formatPets(p.lang, pets), nil)
}
