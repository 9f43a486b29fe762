// Package lookup drives one interactive CNR search: open the portal, let a
// human solve the CAPTCHA, capture the result page, extract and persist it.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
)

// CaptchaMessage is shown while the flow waits for the human.
const CaptchaMessage = "CNR entered. Solve the CAPTCHA in the browser and click Search, " +
	"then press ENTER here once the results appear... "

// Saver persists a finished envelope and returns where it went.
type Saver interface {
	Save(ctx context.Context, env ecourts.QueryEnvelope) (string, error)
}

// Config holds the portal coordinates and the listing filter.
type Config struct {
	BaseURL     string
	CNRSelector string
	// TodayOnly skips persistence when the case is not listed today.
	TodayOnly bool
}

// Deps are the collaborators a Checker needs. All are required except
// Hasher and Logger.
type Deps struct {
	Open     ecourts.BrowserOpener
	Prompter ecourts.Prompter
	Saver    Saver
	Clock    ecourts.Clock
	Hasher   ecourts.Hasher
	Logger   *zap.Logger
}

// Outcome reports what a lookup produced.
type Outcome struct {
	Envelope ecourts.QueryEnvelope
	// Path is empty when nothing was written.
	Path    string
	Skipped bool
}

// Checker runs the lookup flow.
type Checker struct {
	cfg  Config
	deps Deps
}

// New validates the configuration and collaborators.
func New(cfg Config, deps Deps) (*Checker, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("portal base URL is required")
	}
	if strings.TrimSpace(cfg.CNRSelector) == "" {
		return nil, errors.New("CNR selector is required")
	}
	if deps.Open == nil || deps.Prompter == nil || deps.Saver == nil || deps.Clock == nil {
		return nil, errors.New("browser opener, prompter, saver and clock are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Checker{cfg: cfg, deps: deps}, nil
}

// Run looks up cnr. The browser is closed before the page is parsed, whether
// or not the capture succeeded.
func (c *Checker) Run(ctx context.Context, cnr string) (Outcome, error) {
	cnr, err := ecourts.NormalizeCNR(cnr)
	if err != nil {
		return Outcome{}, err
	}
	logger := c.deps.Logger.With(zap.String("cnr", cnr))
	if !ecourts.LooksLikeCNR(cnr) {
		logger.Warn("CNR does not have the usual 16 character shape; searching anyway")
	}

	logger.Info("searching portal", zap.String("url", c.cfg.BaseURL))
	page, err := c.capture(ctx, logger, cnr)
	if err != nil {
		return Outcome{}, err
	}
	if strings.TrimSpace(page) == "" {
		return Outcome{}, ecourts.ErrEmptyCapture
	}
	c.logCapture(logger, page)

	now := c.deps.Clock.Now()
	record := ecourts.Extract(ecourts.VisibleText(page), now)
	env := ecourts.NewEnvelope(cnr, now, record)

	if c.cfg.TodayOnly && !record.ListedToday {
		logger.Info("case is not listed today; nothing written")
		return Outcome{Envelope: env, Skipped: true}, nil
	}

	path, err := c.deps.Saver.Save(ctx, env)
	if err != nil {
		return Outcome{}, fmt.Errorf("save result: %w", err)
	}
	logger.Info("result saved",
		zap.String("path", path),
		zap.Bool("listed_today", record.ListedToday),
		zap.Bool("listed_tomorrow", record.ListedTomorrow),
	)
	return Outcome{Envelope: env, Path: path}, nil
}

func (c *Checker) capture(ctx context.Context, logger *zap.Logger, cnr string) (string, error) {
	browser, err := c.deps.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			logger.Warn("failed to close browser", zap.Error(cerr))
		}
	}()

	if err := browser.Navigate(ctx, c.cfg.BaseURL); err != nil {
		return "", fmt.Errorf("open portal: %w", err)
	}
	if err := browser.FillCNR(ctx, c.cfg.CNRSelector, cnr); err != nil {
		return "", fmt.Errorf("enter CNR: %w", err)
	}
	if err := c.deps.Prompter.WaitForEnter(CaptchaMessage); err != nil {
		return "", fmt.Errorf("wait for CAPTCHA: %w", err)
	}
	page, err := browser.PageHTML(ctx)
	if err != nil {
		return "", fmt.Errorf("capture result page: %w", err)
	}
	return page, nil
}

func (c *Checker) logCapture(logger *zap.Logger, page string) {
	fields := []zap.Field{zap.Int("bytes", len(page))}
	if c.deps.Hasher != nil {
		if digest, err := c.deps.Hasher.Hash([]byte(page)); err == nil {
			fields = append(fields, zap.String("sha256", digest))
		}
	}
	logger.Info("captured result page", fields...)
}
