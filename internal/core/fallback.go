package core

import (
	"slices"

	"github.com/dogjoy/miniapp/internal/api"
)

// Built-in catalog shown when the backend cannot serve one.

var fallbackServices = []api.Service{
	{ID: "1", Title: "Выгул собаки", Description: "Профессиональный выгул с фотоотчётом", Icon: "🐕", BasePrice: 299},
	{ID: "2", Title: "Груминг", Description: "Полный уход за внешностью питомца", Icon: "✂️", BasePrice: 899},
	{ID: "3", Title: "Ветеринарная консультация", Description: "Онлайн консультация с ветеринаром", Icon: "🏥", BasePrice: 499},
	{ID: "4", Title: "Питание и добавки", Description: "Подбор качественного корма и витаминов", Icon: "🥗", BasePrice: 599},
}

var fallbackTariffs = []api.Tariff{
	{
		ID:           "1",
		Name:         "Базовый",
		MonthlyPrice: 499,
		Features:     []string{"2 выгула в неделю", "Еженедельный отчёт", "Поддержка 24/7"},
	},
	{
		ID:           "2",
		Name:         "Премиум",
		MonthlyPrice: 1299,
		Features:     []string{"Ежедневный выгул", "Ежедневный фотоотчёт", "Консультации ветеринара", "Приоритетная поддержка"},
		IsPopular:    true,
	},
	{
		ID:           "3",
		Name:         "VIP",
		MonthlyPrice: 2499,
		Features:     []string{"Неограниченные услуги", "Персональный менеджер", "Экстренный выезд", "Видео-отчёты HD"},
	},
}

// FallbackServices returns a copy of the built-in service list.
func FallbackServices() []api.Service {
	return slices.Clone(fallbackServices)
}

// FallbackTariffs returns a deep copy of the built-in tariff list.
func FallbackTariffs() []api.Tariff {
	return cloneTariffs(fallbackTariffs)
}

// cloneTariffs copies the list and each feature slice.
func cloneTariffs(list []api.Tariff) []api.Tariff {
	out := slices.Clone(list)
	for i := range out {
		out[i].Features = slices.Clone(out[i].Features)
	}
	return out
}
