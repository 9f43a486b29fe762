package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrSessionClosed is returned by Session methods after Close.
var ErrSessionClosed = errors.New("browser session closed")

const defaultSettleDelay = 3 * time.Second

// SessionConfig controls the interactive browser window.
type SessionConfig struct {
	// Headless hides the window. The CAPTCHA step needs a visible window, so
	// this is only useful for scripted runs against a pre-solved page.
	Headless          bool
	WindowWidth       int
	WindowHeight      int
	UserAgent         string
	SettleDelay       time.Duration
	NavigationTimeout time.Duration
}

// Session is one Chrome window kept open across navigation, form filling and
// the human CAPTCHA step. It implements ecourts.Browser.
type Session struct {
	cfg         SessionConfig
	tab         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

// OpenSession launches Chrome and returns once the first tab is ready. The
// session lives until Close, independent of ctx.
func OpenSession(_ context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.SettleDelay < 0 {
		return nil, fmt.Errorf("settle delay must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}

	opts := allocatorOptions(cfg.Headless, cfg.WindowWidth, cfg.WindowHeight)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tab, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		cfg:         cfg,
		tab:         tab,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}
	// The first Run starts the browser; it must not carry a timeout or the
	// process dies with it.
	if err := chromedp.Run(tab); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	return s, nil
}

// Navigate opens url and waits the settle delay for client-side rendering.
func (s *Session) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.settleDelay()),
	)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// FillCNR replaces the contents of the CNR input with cnr.
func (s *Session) FillCNR(ctx context.Context, selector, cnr string) error {
	err := s.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, cnr, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

// PageHTML returns the outer HTML of the current document.
func (s *Session) PageHTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture page source: %w", err)
	}
	return html, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if cerr := chromedp.Cancel(s.tab); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = fmt.Errorf("close browser: %w", cerr)
		}
		s.tabCancel()
		s.allocCancel()
	})
	return err
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	taskCtx, cancel := context.WithTimeout(s.tab, s.cfg.NavigationTimeout)
	defer cancel()
	stopForward := forwardCancel(ctx, cancel)
	defer stopForward()

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return fmt.Errorf("chromedp run: %w", err)
	}
	return nil
}

func (s *Session) settleDelay() time.Duration {
	if s.cfg.SettleDelay > 0 {
		return s.cfg.SettleDelay
	}
	return defaultSettleDelay
}
