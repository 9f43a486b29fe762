// Package cmd defines and implements the CLI commands for the ecourts executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/ecourts-cnr/internal/app"
	"github.com/JakeFAU/ecourts-cnr/internal/config"
	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
	"github.com/JakeFAU/ecourts-cnr/internal/logging"
	"github.com/JakeFAU/ecourts-cnr/internal/lookup"
	"github.com/JakeFAU/ecourts-cnr/internal/probe"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the services commands use, so tests can inject a fake.
type App interface {
	Close()
	Logger() *zap.Logger
	Checker(prompter ecourts.Prompter, todayOnly bool) (*lookup.Checker, error)
	Prober() (*probe.Prober, func(), error)
}

// newApp is the application factory. It's a variable so tests can replace it.
var newApp = func(ctx context.Context, cfg config.Config, logger *zap.Logger) (App, error) {
	return app.New(ctx, cfg, logger)
}

// newRootCmd creates and configures the root command. The returned function
// closes the application once the command has finished, whether or not it
// failed; cobra skips post-run hooks when RunE returns an error.
func newRootCmd() (*cobra.Command, func()) {
	var (
		cfgFile     string
		appInstance App
	)

	cmd := &cobra.Command{
		Use:   "ecourts",
		Short: "Look up Indian eCourts cases by CNR number.",
		Long: `ecourts opens the eCourts portal, enters a CNR number for you and, once
you have solved the CAPTCHA, records the case details and whether the case
is listed today or tomorrow as a JSON file.

The probe command checks whether the portal can be read with plain HTTP or
needs a JavaScript-capable browser.`,
		SilenceUsage: true,

		// Runs before the subcommand's RunE: load config, build the logger and
		// inject the application.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			appInstance, err = newApp(cmd.Context(), cfg, logger)
			if err != nil {
				appInstance = nil
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, TOML or JSON; env ECOURTS_* overrides)")

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newProbeCmd())

	closeApp := func() {
		if appInstance != nil {
			appInstance.Close()
			appInstance = nil
		}
	}
	return cmd, closeApp
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	root, closeApp := newRootCmd()
	err := root.ExecuteContext(ctx)
	closeApp()
	stop()
	if err != nil {
		zap.L().Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}
