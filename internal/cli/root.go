// Package cli implements the miniapp command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dogjoy/miniapp/config"
	"github.com/dogjoy/miniapp/internal/api"
	"github.com/dogjoy/miniapp/internal/auth"
	"github.com/dogjoy/miniapp/internal/core"
	"github.com/dogjoy/miniapp/internal/logger"
	"github.com/dogjoy/miniapp/internal/storage"
)

// Default context timeout for one command.
const defaultTimeout = 2 * time.Minute

// app holds the flags and everything resolved from them for one invocation.
type app struct {
	configFile string
	apiURL     string
	storeName  string
	storePath  string
	initData   string
	outputJSON bool
	noColor    bool
	quiet      bool

	cfg    *config.Config
	store  storage.Store
	client *api.Client
	host   auth.HostContextProvider
	boot   *auth.Bootstrapper
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "miniapp",
		Short: "Dog Joy client",
		Long: `Command line client for the Dog Joy backend.

Every command first resolves a session: the stored one, a login with Telegram
init data (--init-data or TG_INIT_DATA), or a local test identity.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file path (default: miniapp.yaml if present)")
	pf.StringVar(&a.apiURL, "api-url", "", "Backend base URL")
	pf.StringVar(&a.storeName, "store", "", "Session store driver: memory, file, sqlite or redis")
	pf.StringVar(&a.storePath, "store-path", "", "Session file for the file and sqlite stores")
	pf.StringVar(&a.initData, "init-data", "", "Telegram init data to log in with")
	pf.BoolVar(&a.outputJSON, "json", false, "Output in JSON format")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&a.quiet, "quiet", false, "Suppress non-essential output")

	root.AddCommand(
		a.newBootstrapCmd(),
		a.newWhoamiCmd(),
		a.newLogoutCmd(),
		a.newProfileCmd(),
		a.newPetsCmd(),
		a.newServicesCmd(),
		a.newTariffsCmd(),
		a.newOrdersCmd(),
		a.newSubscriptionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.teardown()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.storeName != "" {
		cfg.Store.Driver = a.storeName
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
	}
	if a.initData != "" {
		cfg.InitData = a.initData
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if a.quiet && cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	logger.Setup(cfg.LogLevel)

	a.store, err = storage.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	var opts []api.Option
	if cfg.APIRateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.APIRateLimit, cfg.APIRateBurst))
	}
	a.client = api.NewClient(cfg.APIBaseURL, cfg.APITimeout, opts...)

	a.host = auth.NoHost{}
	if cfg.InitData != "" {
		a.host = auth.NewStaticHost(cfg.InitData)
	}
	a.boot = auth.NewBootstrapper(a.store, a.host, a.client, auth.WithLoginTimeout(cfg.LoginTimeout))
	return nil
}

func (a *app) teardown() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	logger.Sync()
}

// session bootstraps with a spinner and warns about test sessions.
func (a *app) session(cmd *cobra.Command) auth.Session {
	var s *spinner.Spinner
	if !a.outputJSON && !a.quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Signing in..."
		s.Start()
	}

	sess := a.boot.Bootstrap(cmd.Context())

	if s != nil {
		s.Stop()
	}
	if sess.IsTestSession && !a.outputJSON && !a.quiet {
		warningColor.Fprintln(cmd.ErrOrStderr(), "Test session: the backend login is unavailable, using a local identity.")
	}
	return sess
}

func (a *app) identity() *auth.TelegramIdentity {
	if u, ok := a.host.User(); ok {
		return &u
	}
	return nil
}

func (a *app) profiles() *core.ProfileService { return core.NewProfileService(a.client) }
func (a *app) pets() *core.PetService         { return core.NewPetService(a.client) }
func (a *app) billing() *core.BillingService  { return core.NewBillingService(a.client) }
func (a *app) catalog() *core.CatalogService {
	return core.NewCatalogService(a.client, a.cfg.CatalogCacheTTL)
}

// withTimeout bounds one command.
func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), defaultTimeout)
}
