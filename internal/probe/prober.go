// Package probe checks whether the portal homepage can be scraped with a
// plain HTTP client or needs a rendering browser.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
)

// Strategy names how a page was fetched.
type Strategy string

const (
	StrategyHTTP    Strategy = "http"
	StrategyBrowser Strategy = "browser"
)

// Snapshot object names, one per strategy.
const (
	HTTPSnapshot    = "homepage_requests.html"
	BrowserSnapshot = "homepage_browser.html"
)

// Classifier is the subset of the reachability heuristics the probe needs.
type Classifier interface {
	HasCaseContent(text string) bool
	LooksJSShell(text string) bool
	ShouldPromote(resp ecourts.FetchResponse) bool
}

// Attempt records one fetch. Err is set when the fetch or its snapshot
// failed; the remaining fields describe whatever was retrieved.
type Attempt struct {
	Strategy       Strategy
	StatusCode     int
	Bytes          int
	Duration       time.Duration
	SnapshotURI    string
	SHA256         string
	HasCaseContent bool
	LooksJSShell   bool
	Err            error
}

// OK reports whether the page was fetched and stored.
func (a Attempt) OK() bool {
	return a.Err == nil
}

// Report summarizes a probe run.
type Report struct {
	Target   string
	Attempts []Attempt
	// Promoted is true when the browser fallback was tried or wanted.
	Promoted bool
	// BrowserSkipped is true when promotion was wanted but no browser fetcher
	// was configured.
	BrowserSkipped bool
}

// Config names the page to probe.
type Config struct {
	Target string
}

// Deps are the probe's collaborators. Browser may be nil to disable the
// fallback and Hasher may be nil to skip digests. Logger defaults to a no-op
// logger.
type Deps struct {
	HTTP       ecourts.Fetcher
	Browser    ecourts.Fetcher
	Classifier Classifier
	Store      ecourts.BlobStore
	Hasher     ecourts.Hasher
	Logger     *zap.Logger
}

// Prober runs the reachability probe.
type Prober struct {
	cfg  Config
	deps Deps
}

// New validates the probe configuration.
func New(cfg Config, deps Deps) (*Prober, error) {
	if strings.TrimSpace(cfg.Target) == "" {
		return nil, errors.New("probe target is required")
	}
	if deps.HTTP == nil || deps.Classifier == nil || deps.Store == nil {
		return nil, errors.New("http fetcher, classifier and store are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Prober{cfg: cfg, deps: deps}, nil
}

// Run fetches the target over HTTP and, when the response looks unusable,
// again through the browser. Failures are recorded on the report.
func (p *Prober) Run(ctx context.Context) Report {
	report := Report{Target: p.cfg.Target}
	logger := p.deps.Logger.With(zap.String("target", p.cfg.Target))

	first, resp := p.attempt(ctx, logger, StrategyHTTP, p.deps.HTTP, HTTPSnapshot)
	report.Attempts = append(report.Attempts, first)

	if first.OK() && !p.deps.Classifier.ShouldPromote(resp) {
		return report
	}
	report.Promoted = true
	if p.deps.Browser == nil {
		report.BrowserSkipped = true
		logger.Info("browser fallback disabled")
		return report
	}
	if ctx.Err() != nil {
		return report
	}

	second, _ := p.attempt(ctx, logger, StrategyBrowser, p.deps.Browser, BrowserSnapshot)
	report.Attempts = append(report.Attempts, second)
	return report
}

func (p *Prober) attempt(
	ctx context.Context,
	logger *zap.Logger,
	strategy Strategy,
	fetcher ecourts.Fetcher,
	snapshot string,
) (Attempt, ecourts.FetchResponse) {
	logger = logger.With(zap.String("strategy", string(strategy)))
	result := Attempt{Strategy: strategy}

	resp, err := fetcher.Fetch(ctx, ecourts.FetchRequest{URL: p.cfg.Target})
	result.StatusCode = resp.StatusCode
	result.Duration = resp.Duration
	if err != nil {
		result.Err = fmt.Errorf("%s fetch: %w", strategy, err)
		logger.Warn("fetch failed", zap.Error(err))
		return result, resp
	}

	body := string(resp.Body)
	result.Bytes = len(resp.Body)
	result.HasCaseContent = p.deps.Classifier.HasCaseContent(body)
	result.LooksJSShell = p.deps.Classifier.LooksJSShell(body)
	if p.deps.Hasher != nil {
		digest, err := p.deps.Hasher.Hash(resp.Body)
		if err != nil {
			logger.Warn("hash failed", zap.Error(err))
		}
		result.SHA256 = digest
	}

	uri, err := p.deps.Store.PutObject(ctx, snapshot, "text/html; charset=utf-8", bytes.NewReader(resp.Body))
	if err != nil {
		result.Err = fmt.Errorf("save %s: %w", snapshot, err)
		logger.Warn("snapshot failed", zap.Error(err))
		return result, resp
	}
	result.SnapshotURI = uri

	logger.Info("fetch complete",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", result.Bytes),
		zap.String("sha256", result.SHA256),
		zap.Duration("duration", resp.Duration),
		zap.Bool("case_content", result.HasCaseContent),
		zap.Bool("js_shell", result.LooksJSShell),
		zap.String("snapshot", uri),
	)
	return result, resp
}
