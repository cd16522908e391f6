// Package commands provides shared types for command handlers.
package commands

import (
	"time"

	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/core"
	"github.com/dogjoy/miniapp/internal/storage"
)

// Deps contains shared dependencies for all command handlers.
type Deps struct {
	// Config
	WebAppURL    string
	BotToken     string
	LoginTimeout time.Duration

	// Store holds every user's session under a "tg:<id>:" namespace.
	Store storage.Store
	API   *api.Client
	Locks *KeyedMutex

	Profiles *core.ProfileService
	Pets     *core.PetService
	Catalog  *core.CatalogService
	Billing  *core.BillingService
}
