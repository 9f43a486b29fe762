// Package app holds the long-lived services a command needs and builds the
// lookup and probe flows from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/ecourts-cnr/internal/clock/system"
	"github.com/JakeFAU/ecourts-cnr/internal/config"
	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
	collyfetcher "github.com/JakeFAU/ecourts-cnr/internal/fetcher/colly"
	"github.com/JakeFAU/ecourts-cnr/internal/fetcher/headless"
	"github.com/JakeFAU/ecourts-cnr/internal/hash/sha256"
	"github.com/JakeFAU/ecourts-cnr/internal/headless/detector"
	"github.com/JakeFAU/ecourts-cnr/internal/id/uuid"
	"github.com/JakeFAU/ecourts-cnr/internal/logging"
	"github.com/JakeFAU/ecourts-cnr/internal/lookup"
	"github.com/JakeFAU/ecourts-cnr/internal/probe"
	"github.com/JakeFAU/ecourts-cnr/internal/results"
	"github.com/JakeFAU/ecourts-cnr/internal/storage"
)

// IDGenerator produces run identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

// App holds the shared services for one command invocation.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	runID      string
	store      ecourts.BlobStore
	closeStore func() error
	// openBrowser is swapped in tests so no Chrome is launched.
	openBrowser ecourts.BrowserOpener
}

// New initializes storage and tags the logger with a fresh run id. It fails
// fast so a bad storage config is reported before any browser opens.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	return newWithIDs(ctx, cfg, logger, uuid.New())
}

func newWithIDs(ctx context.Context, cfg config.Config, logger *zap.Logger, ids IDGenerator) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID, err := ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	logger = logging.ForRun(logger, runID, "")

	store, closeStore, err := storage.Open(ctx, storage.Config{
		Backend:   cfg.Storage.Backend,
		BaseDir:   cfg.Storage.BaseDir,
		GCSBucket: cfg.Storage.GCSBucket,
		Prefix:    cfg.Storage.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Debug("storage ready", zap.String("backend", cfg.Storage.Backend))

	a := &App{
		cfg:        cfg,
		logger:     logger,
		runID:      runID,
		store:      store,
		closeStore: closeStore,
	}
	a.openBrowser = a.openSession
	return a, nil
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the run-scoped logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// RunID identifies this invocation in logs.
func (a *App) RunID() string {
	return a.runID
}

// Store returns the configured blob backend.
func (a *App) Store() ecourts.BlobStore {
	return a.store
}

// Checker builds the interactive lookup flow around prompter.
func (a *App) Checker(prompter ecourts.Prompter, todayOnly bool) (*lookup.Checker, error) {
	return lookup.New(lookup.Config{
		BaseURL:     a.cfg.Portal.BaseURL,
		CNRSelector: a.cfg.Portal.CNRSelector,
		TodayOnly:   todayOnly,
	}, lookup.Deps{
		Open:     a.openBrowser,
		Prompter: prompter,
		Saver:    results.NewWriter(a.store),
		Clock:    system.New(),
		Hasher:   sha256.New(),
		Logger:   a.logger.Named("lookup"),
	})
}

// Prober builds the reachability probe. The returned cleanup stops the
// headless browser, if one was configured.
func (a *App) Prober() (*probe.Prober, func(), error) {
	deps := probe.Deps{
		HTTP: collyfetcher.New(collyfetcher.Config{
			UserAgent: a.cfg.HTTP.UserAgent,
			Timeout:   a.cfg.HTTPTimeout(),
		}),
		Classifier: detector.NewReachability(a.cfg.Detector.MinLength, a.cfg.Detector.Phrases),
		Store:      a.store,
		Hasher:     sha256.New(),
		Logger:     a.logger.Named("probe"),
	}
	cleanup := func() {}
	if a.cfg.Browser.ProbeEnabled {
		browser, err := headless.NewChromedp(headless.Config{
			UserAgent:         a.cfg.Browser.UserAgent,
			NavigationTimeout: a.cfg.NavTimeout(),
			SettleDelay:       a.cfg.ProbeSettleDelay(),
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("init headless fetcher: %w", err)
		}
		deps.Browser = browser
		cleanup = browser.Close
	}

	p, err := probe.New(probe.Config{Target: a.cfg.Portal.BaseURL}, deps)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return p, cleanup, nil
}

func (a *App) openSession(ctx context.Context) (ecourts.Browser, error) {
	a.logger.Info("opening browser; complete the CAPTCHA manually when asked")
	session, err := headless.OpenSession(ctx, headless.SessionConfig{
		Headless:          a.cfg.Browser.Headless,
		WindowWidth:       a.cfg.Browser.WindowWidth,
		WindowHeight:      a.cfg.Browser.WindowHeight,
		UserAgent:         a.cfg.Browser.UserAgent,
		SettleDelay:       a.cfg.SettleDelay(),
		NavigationTimeout: a.cfg.NavTimeout(),
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Close releases the storage client and flushes the logger.
func (a *App) Close() {
	if err := a.closeStore(); err != nil {
		a.logger.Warn("Error closing storage client", zap.Error(err))
	}
	// Sync fails on terminals (ENOTTY); nothing useful can be done with it.
	_ = a.logger.Sync()
}
