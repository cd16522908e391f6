package users

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/core"
)

func TestParseAddPet(t *testing.T) {
	in, err := parseAddPet("Рекс; Корги; 3")
	require.NoError(t, err)
	assert.Equal(t, api.PetInput{Name: "Рекс", Breed: "Корги", Age: 3}, in)

	in, err = parseAddPet("Rex;Corgi; 4 ; loves; sticks")
	require.NoError(t, err)
	assert.Equal(t, 4, in.Age)
	assert.Equal(t, "loves; sticks", in.Description)

	_, err = parseAddPet("Rex; Corgi")
	assert.ErrorIs(t, err, errAddPetUsage)

	_, err = parseAddPet("Rex; Corgi; three")
	assert.ErrorIs(t, err, errAddPetUsage)
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "Rex; Corgi; 3", commandArgs("/addpet Rex; Corgi; 3"))
	assert.Equal(t, "a b", commandArgs("/addpet@dogjoy_bot   a b "))
	assert.Empty(t, commandArgs("/addpet"))
}

func TestFormatTariffsMarksPopularAndFallback(t *testing.T) {
	text := formatTariffs("en", core.FallbackTariffs(), true)

	assert.Contains(t, text, "Премиум: 1,299 ₽ per month ⭐ Popular")
	assert.Contains(t, text, "• Ежедневный выгул")
	assert.Contains(t, text, "Showing the default catalog.")

	kb := tariffsKeyboard("en", core.FallbackTariffs())
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "tariff:sub:2", kb.InlineKeyboard[1][0].CallbackData)
}

func TestFormatServices(t *testing.T) {
	text := formatServices("en", core.FallbackServices(), false)
	assert.Contains(t, text, "🐕 Выгул собаки: 299 ₽")
	assert.NotContains(t, text, "default catalog")
}

func TestFormatProfile(t *testing.T) {
	view := &core.ProfileView{
		User:             api.User{FirstName: "Anna", LastName: "Petrova", Email: "a@b.co"},
		Pets:             []api.Pet{{}, {}},
		Initials:         "AP",
		TelegramVerified: true,
		IsTestSession:    true,
	}
	text := formatProfile("en", view)

	assert.Contains(t, text, "Anna Petrova (AP)")
	assert.Contains(t, text, "Plan: none")
	assert.Contains(t, text, "Email: a@b.co")
	assert.Contains(t, text, "Pets: 2, orders: 0")
	assert.Contains(t, text, "Verified via Telegram")
	assert.Contains(t, text, "Test session")
}

func TestFormatPetsAndOrders(t *testing.T) {
	assert.Contains(t, formatPets("en", nil), "/addpet")
	assert.Nil(t, petsKeyboard("en", nil))

	pets := []api.Pet{{ID: "p1", Name: "Rex", Breed: "Corgi", Age: 3}}
	assert.Contains(t, formatPets("en", pets), "Rex, Corgi, 3 y.o.")
	assert.Equal(t, "pet:del:p1", petsKeyboard("en", pets).InlineKeyboard[0][0].CallbackData)

	orders := []api.Order{{ID: "9", Amount: 499, Status: "paid", CreatedAt: "2026-03-01T10:00:00Z"}}
	assert.Contains(t, formatOrders("en", orders), "#9: 499 ₽, paid 01.03.2026")
	assert.Equal(t, "No orders yet.", formatOrders("en", nil))
}

func TestErrorMessage(t *testing.T) {
	verr := &core.ValidationError{Fields: []core.FieldError{{Field: "age", Rule: "min", Param: "1"}}}

	assert.Contains(t, errorMessage("en", fmt.Errorf("add: %w", verr)), "age must be at least 1")
	assert.Contains(t, errorMessage("en", &api.Error{Status: 401}), "session is no longer valid")
	assert.Contains(t, errorMessage("en", &api.Error{Status: 404}), "Not found")
	assert.Contains(t, errorMessage("en", core.ErrNoConfirmationURL), "no payment link")
	assert.Contains(t, errorMessage("en", errors.New("boom")), "Something went wrong")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05.01.2026", formatDate("2026-01-05"))
	assert.Equal(t, "soon", formatDate("soon"))
	assert.Empty(t, formatDate(""))
}
