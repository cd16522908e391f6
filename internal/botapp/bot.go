package botapp

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dogjoy/miniapp/internal/botapp/commands"
	"github.com/dogjoy/miniapp/internal/botapp/commands/users"
	"github.com/dogjoy/miniapp/internal/logger"
)

type Options struct {
	Debug       bool
	InitTimeout time.Duration
}

// route binds a text command or callback prefix to a handler.
type route struct {
	kind    bot.HandlerType
	pattern string
	match   bot.MatchType
	handler commands.HandlerFunc
	// public routes skip the session bootstrap.
	public bool
}

var routes = []route{
	{bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, users.HandleStart, false},
	{bot.HandlerTypeMessageText, "/webapp", bot.MatchTypeExact, users.HandleWebApp, true},
	{bot.HandlerTypeMessageText, "/services", bot.MatchTypeExact, users.HandleServices, false},
	{bot.HandlerTypeMessageText, "/tariffs", bot.MatchTypeExact, users.HandleTariffs, false},
	{bot.HandlerTypeMessageText, "/profile", bot.MatchTypeExact, users.HandleProfile, false},
	{bot.HandlerTypeMessageText, "/pets", bot.MatchTypeExact, users.HandlePets, false},
	{bot.HandlerTypeMessageText, "/addpet", bot.MatchTypePrefix, users.HandleAddPet, false},
	{bot.HandlerTypeMessageText, "/orders", bot.MatchTypeExact, users.HandleOrders, false},
	{bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, users.HandleCancel, true},
	{bot.HandlerTypeMessageText, "/language", bot.MatchTypeExact, users.HandleLanguage, true},
	{bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, users.HandleLogout, true},

	{bot.HandlerTypeCallbackQueryData, "menu:", bot.MatchTypePrefix, users.HandleMenuCallback, false},
	{bot.HandlerTypeCallbackQueryData, "tariff:", bot.MatchTypePrefix, users.HandleTariffCallback, false},
	{bot.HandlerTypeCallbackQueryData, "pet:", bot.MatchTypePrefix, users.HandlePetCallback, false},
	{bot.HandlerTypeCallbackQueryData, "sub:cancel", bot.MatchTypeExact, users.HandleCancelCallback, false},
	{bot.HandlerTypeCallbackQueryData, "lang:", bot.MatchTypePrefix, users.HandleLanguageCallback, true},
}

// menuCommands is the command list Telegram shows in the chat menu.
var menuCommands = []models.BotCommand{
	{Command: "start", Description: "Главное меню"},
	{Command: "services", Description: "Услуги"},
	{Command: "tariffs", Description: "Тарифы и подписка"},
	{Command: "profile", Description: "Профиль"},
	{Command: "pets", Description: "Питомцы"},
	{Command: "addpet", Description: "Добавить питомца"},
	{Command: "orders", Description: "История заказов"},
	{Command: "cancel", Description: "Отменить подписку"},
	{Command: "webapp", Description: "Открыть приложение"},
	{Command: "language", Description: "Язык"},
	{Command: "logout", Description: "Выйти"},
}

func NewBot(token string, deps commands.Deps, opts Options) (*bot.Bot, error) {
	if deps.Locks == nil {
		deps.Locks = commands.NewKeyedMutex()
	}
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = 5 * time.Second
	}

	withSession := commands.Chain(commands.WithRecover, commands.WithSession)
	public := commands.Chain(commands.WithRecover)

	defaultHandler := adapt(public(users.DefaultHandler), deps)

	botOpts := []bot.Option{
		bot.WithCheckInitTimeout(opts.InitTimeout),
		bot.WithDefaultHandler(defaultHandler),
		bot.WithErrorsHandler(func(err error) {
			logger.Errorf("telegram: %v", err)
		}),
	}
	if opts.Debug {
		botOpts = append(botOpts, bot.WithDebug())
	}

	b, err := bot.New(token, botOpts...)
	if err != nil {
		return nil, err
	}

	for _, r := range routes {
		mw := withSession
		if r.public {
			mw = public
		}
		b.RegisterHandler(r.kind, r.pattern, r.match, adapt(mw(r.handler), deps))
	}
	return b, nil
}

// SetCommands publishes the chat menu commands.
func SetCommands(ctx context.Context, b *bot.Bot) error {
	_, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: menuCommands})
	return err
}

func adapt(h commands.HandlerFunc, deps commands.Deps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, u *models.Update) {
		h(ctx, b, u, deps)
	}
}
