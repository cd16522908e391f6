package users

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/core"
	"github.com/dogjoy/miniapp/internal/i18n"
)

// Callback data prefixes.
const (
	cbMenu     = "menu:"
	cbTariff   = "tariff:"
	cbPet      = "pet:"
	cbLang     = "lang:"
	cbCancel   = "sub:cancel"
	tariffSub  = "sub:"
	petDelete  = "del:"
	maxPetArgs = 4
)

var errAddPetUsage = errors.New("usage: /addpet name; breed; age[; description]")

func formatServices(lang string, services []api.Service, fallback bool) string {
	loc := i18n.Localizer(lang)
	var sb strings.Builder
	sb.WriteString(i18n.T(loc, "services_title"))
	for _, s := range services {
		sb.WriteString("\n\n")
		sb.WriteString(i18n.TWithData(loc, "service_item", map[string]any{
			"Icon":        s.Icon,
			"Title":       s.Title,
			"Price":       i18n.FormatPrice(lang, s.BasePrice),
			"Description": s.Description,
		}))
	}
	if fallback {
		sb.WriteString("\n\n")
		sb.WriteString(i18n.T(loc, "catalog_offline_note"))
	}
	return sb.String()
}

func formatTariffs(lang string, tariffs []api.Tariff, fallback bool) string {
	loc := i18n.Localizer(lang)
	var sb strings.Builder
	sb.WriteString(i18n.T(loc, "tariffs_title"))
	for _, t := range tariffs {
		sb.WriteString("\n\n")
		sb.WriteString(i18n.TWithData(loc, "tariff_item", map[string]any{
			"Name":  t.Name,
			"Price": i18n.FormatPrice(lang, t.MonthlyPrice),
		}))
		if t.IsPopular {
			sb.WriteString(" ")
			sb.WriteString(i18n.T(loc, "tariff_popular"))
		}
		for _, f := range t.Features {
			sb.WriteString("\n• ")
			sb.WriteString(f)
		}
	}
	if fallback {
		sb.WriteString("\n\n")
		sb.WriteString(i18n.T(loc, "catalog_offline_note"))
	}
	return sb.String()
}

func tariffsKeyboard(lang string, tariffs []api.Tariff) *models.InlineKeyboardMarkup {
	loc := i18n.Localizer(lang)
	rows := make([][]models.InlineKeyboardButton, 0, len(tariffs))
	for _, t := range tariffs {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         i18n.TWithData(loc, "btn_subscribe", map[string]any{"Name": t.Name}),
			CallbackData: cbTariff + tariffSub + t.ID.String(),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func payKeyboard(lang, confirmationURL string) *models.InlineKeyboardMarkup {
	loc := i18n.Localizer(lang)
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: i18n.T(loc, "btn_pay_now"), URL: confirmationURL}},
		},
	}
}

func formatProfile(lang string, view *core.ProfileView) string {
	loc := i18n.Localizer(lang)
	u := view.User

	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	plan := u.SubscriptionPlan
	if plan == "" {
		plan = i18n.T(loc, "plan_none")
	}

	lines := []string{
		i18n.TWithData(loc, "profile_title", map[string]any{"Name": name, "Initials": view.Initials}),
		i18n.TWithData(loc, "profile_plan", map[string]any{"Plan": plan}),
	}
	if u.SubscriptionExpiresAt != "" {
		lines = append(lines, i18n.TWithData(loc, "profile_expires", map[string]any{"Date": formatDate(u.SubscriptionExpiresAt)}))
	}
	if u.Email != "" {
		lines = append(lines, i18n.TWithData(loc, "profile_email", map[string]any{"Email": u.Email}))
	}
	if u.PhoneNumber != "" {
		lines = append(lines, i18n.TWithData(loc, "profile_phone", map[string]any{"Phone": u.PhoneNumber}))
	}
	lines = append(lines, i18n.TWithData(loc, "profile_counts", map[string]any{
		"Pets":   len(view.Pets),
		"Orders": len(view.Orders),
	}))
	if view.TelegramVerified {
		lines = append(lines, i18n.T(loc, "profile_verified"))
	}
	if view.Local {
		lines = append(lines, i18n.T(loc, "profile_local"))
	}
	if view.IsTestSession {
		lines = append(lines, i18n.T(loc, "test_session_note"))
	}
	return strings.Join(lines, "\n")
}

func formatPets(lang string, pets []api.Pet) string {
	loc := i18n.Localizer(lang)
	if len(pets) == 0 {
		return i18n.T(loc, "pets_empty")
	}
	var sb strings.Builder
	sb.WriteString(i18n.T(loc, "pets_title"))
	for _, p := range pets {
		sb.WriteString("\n")
		sb.WriteString(i18n.TWithData(loc, "pet_item", map[string]any{
			"Name":  p.Name,
			"Breed": p.Breed,
			"Age":   p.Age,
		}))
		if p.Description != "" {
			sb.WriteString("\n   ")
			sb.WriteString(p.Description)
		}
	}
	return sb.String()
}

func petsKeyboard(lang string, pets []api.Pet) *models.InlineKeyboardMarkup {
	if len(pets) == 0 {
		return nil
	}
	loc := i18n.Localizer(lang)
	rows := make([][]models.InlineKeyboardButton, 0, len(pets))
	for _, p := range pets {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         i18n.TWithData(loc, "btn_delete_pet", map[string]any{"Name": p.Name}),
			CallbackData: cbPet + petDelete + p.ID.String(),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func formatOrders(lang string, orders []api.Order) string {
	loc := i18n.Localizer(lang)
	if len(orders) == 0 {
		return i18n.T(loc, "orders_empty")
	}
	var sb strings.Builder
	sb.WriteString(i18n.T(loc, "orders_title"))
	for _, o := range orders {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(i18n.TWithData(loc, "order_item", map[string]any{
			"ID":     o.ID.String(),
			"Amount": i18n.FormatPrice(lang, o.Amount),
			"Status": o.Status,
			"Date":   formatDate(o.CreatedAt),
		})))
	}
	return sb.String()
}

// parseAddPet reads "name; breed; age[; description]".
func parseAddPet(args string) (api.PetInput, error) {
	parts := strings.SplitN(args, ";", maxPetArgs)
	if len(parts) < 3 {
		return api.PetInput{}, errAddPetUsage
	}
	age, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return api.PetInput{}, fmt.Errorf("%w: age %q is not a number", errAddPetUsage, strings.TrimSpace(parts[2]))
	}
	in := api.PetInput{
		Name:  strings.TrimSpace(parts[0]),
		Breed: strings.TrimSpace(parts[1]),
		Age:   age,
	}
	if len(parts) == maxPetArgs {
		in.Description = strings.TrimSpace(parts[3])
	}
	return in, nil
}

// commandArgs drops the leading "/command" or "/command@bot".
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, rest, _ := strings.Cut(text, " ")
	return strings.TrimSpace(rest)
}

// errorMessage turns a service error into the reply shown to the user.
func errorMessage(lang string, err error) string {
	loc := i18n.Localizer(lang)

	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = f.String()
		}
		return i18n.TWithData(loc, "error_validation", map[string]any{"Details": strings.Join(details, "; ")})
	case errors.Is(err, errAddPetUsage):
		return i18n.T(loc, "addpet_usage")
	case errors.Is(err, core.ErrNoConfirmationURL):
		return i18n.T(loc, "payment_no_url")
	case errors.Is(err, core.ErrNotAuthenticated), api.IsAuthError(err):
		return i18n.T(loc, "error_auth")
	case api.IsNotFound(err):
		return i18n.T(loc, "error_not_found")
	}
	return i18n.T(loc, "error_generic")
}

func formatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return raw
}
