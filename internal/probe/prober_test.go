package probe

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
	"github.com/JakeFAU/ecourts-cnr/internal/hash/sha256"
	"github.com/JakeFAU/ecourts-cnr/internal/headless/detector"
	"github.com/JakeFAU/ecourts-cnr/internal/storage/memory"
)

const target = "https://portal.example/ecourtindia_v6/"

var errFetch = errors.New("connection refused")

type stubFetcher struct {
	body  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, req ecourts.FetchRequest) (ecourts.FetchResponse, error) {
	s.calls++
	if s.err != nil {
		return ecourts.FetchResponse{URL: req.URL}, s.err
	}
	return ecourts.FetchResponse{
		URL:        req.URL,
		StatusCode: 200,
		Body:       []byte(s.body),
		Duration:   120 * time.Millisecond,
	}, nil
}

type brokenStore struct{}

func (brokenStore) PutObject(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("read-only file system")
}

func fullPage(withCNR bool) string {
	filler := strings.Repeat("<p>Welcome to the district court services portal.</p>", 80)
	if withCNR {
		return "<html><body><h1>Search by CNR Number</h1>" + filler + "</body></html>"
	}
	return "<html><body>" + filler + "</body></html>"
}

func newProber(t *testing.T, httpFetcher, browser ecourts.Fetcher, store ecourts.BlobStore) *Prober {
	t.Helper()
	p, err := New(Config{Target: target}, Deps{
		HTTP:       httpFetcher,
		Browser:    browser,
		Classifier: detector.NewReachability(0, nil),
		Store:      store,
	})
	require.NoError(t, err)
	return p
}

func TestRunHTTPSufficient(t *testing.T) {
	t.Parallel()

	store := memory.NewBlobStore()
	httpFetcher := &stubFetcher{body: fullPage(true)}
	browser := &stubFetcher{body: fullPage(true)}

	report := newProber(t, httpFetcher, browser, store).Run(context.Background())

	require.Len(t, report.Attempts, 1)
	first := report.Attempts[0]
	assert.True(t, first.OK())
	assert.Equal(t, StrategyHTTP, first.Strategy)
	assert.True(t, first.HasCaseContent)
	assert.False(t, first.LooksJSShell)
	assert.Equal(t, len(fullPage(true)), first.Bytes)
	assert.Equal(t, "memory://"+HTTPSnapshot, first.SnapshotURI)
	assert.False(t, report.Promoted)
	assert.Zero(t, browser.calls)
	assert.Equal(t, []string{HTTPSnapshot}, store.Paths())
}

func TestRunPromotesJSShell(t *testing.T) {
	t.Parallel()

	store := memory.NewBlobStore()
	httpFetcher := &stubFetcher{body: "<html><noscript>Please enable JavaScript</noscript></html>"}
	browser := &stubFetcher{body: fullPage(true)}

	report := newProber(t, httpFetcher, browser, store).Run(context.Background())

	require.Len(t, report.Attempts, 2)
	assert.True(t, report.Promoted)
	assert.True(t, report.Attempts[0].LooksJSShell)
	second := report.Attempts[1]
	assert.Equal(t, StrategyBrowser, second.Strategy)
	assert.True(t, second.OK())
	assert.True(t, second.HasCaseContent)
	assert.Equal(t, []string{BrowserSnapshot, HTTPSnapshot}, store.Paths())

	got, ok := store.Object(BrowserSnapshot)
	require.True(t, ok)
	assert.Equal(t, fullPage(true), string(got))
}

func TestRunPromotesWithoutCaseContent(t *testing.T) {
	t.Parallel()

	browser := &stubFetcher{body: fullPage(false)}
	report := newProber(t, &stubFetcher{body: fullPage(false)}, browser, memory.NewBlobStore()).
		Run(context.Background())

	require.Len(t, report.Attempts, 2)
	assert.False(t, report.Attempts[0].LooksJSShell)
	assert.False(t, report.Attempts[0].HasCaseContent)
	assert.False(t, report.Attempts[1].HasCaseContent)
	assert.Equal(t, 1, browser.calls)
}

func TestRunHTTPFailureFallsBack(t *testing.T) {
	t.Parallel()

	store := memory.NewBlobStore()
	report := newProber(t, &stubFetcher{err: errFetch}, &stubFetcher{body: fullPage(true)}, store).
		Run(context.Background())

	require.Len(t, report.Attempts, 2)
	first := report.Attempts[0]
	assert.False(t, first.OK())
	require.ErrorIs(t, first.Err, errFetch)
	assert.Empty(t, first.SnapshotURI)
	assert.True(t, report.Attempts[1].OK())
	assert.Equal(t, []string{BrowserSnapshot}, store.Paths())
}

func TestRunBothFail(t *testing.T) {
	t.Parallel()

	browserErr := errors.New("chrome not found")
	report := newProber(t, &stubFetcher{err: errFetch}, &stubFetcher{err: browserErr}, memory.NewBlobStore()).
		Run(context.Background())

	require.Len(t, report.Attempts, 2)
	require.ErrorIs(t, report.Attempts[0].Err, errFetch)
	require.ErrorIs(t, report.Attempts[1].Err, browserErr)
}

func TestRunBrowserDisabled(t *testing.T) {
	t.Parallel()

	report := newProber(t, &stubFetcher{err: errFetch}, nil, memory.NewBlobStore()).Run(context.Background())

	require.Len(t, report.Attempts, 1)
	assert.True(t, report.Promoted)
	assert.True(t, report.BrowserSkipped)
}

func TestRunRecordsDigest(t *testing.T) {
	t.Parallel()

	p, err := New(Config{Target: target}, Deps{
		HTTP:       &stubFetcher{body: fullPage(true)},
		Classifier: detector.NewReachability(0, nil),
		Store:      memory.NewBlobStore(),
		Hasher:     sha256.New(),
	})
	require.NoError(t, err)

	report := p.Run(context.Background())

	require.Len(t, report.Attempts, 1)
	assert.Equal(t, "c7d22c019ea06fded06662d134760da8e1b770f8a917e57274b9a640832aeaa5", report.Attempts[0].SHA256)
}

func TestRunWithoutHasherLeavesDigestEmpty(t *testing.T) {
	t.Parallel()

	report := newProber(t, &stubFetcher{body: fullPage(true)}, nil, memory.NewBlobStore()).Run(context.Background())

	require.Len(t, report.Attempts, 1)
	assert.Empty(t, report.Attempts[0].SHA256)
}

func TestRunSnapshotFailureRecorded(t *testing.T) {
	t.Parallel()

	report := newProber(t, &stubFetcher{body: fullPage(true)}, nil, brokenStore{}).Run(context.Background())

	first := report.Attempts[0]
	require.Error(t, first.Err)
	assert.Contains(t, first.Err.Error(), HTTPSnapshot)
	assert.True(t, first.HasCaseContent)
	assert.True(t, report.Promoted)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}, Deps{})
	require.Error(t, err)

	_, err = New(Config{Target: target}, Deps{HTTP: &stubFetcher{}})
	require.Error(t, err)

	p, err := New(Config{Target: target}, Deps{
		HTTP:       &stubFetcher{},
		Classifier: detector.NewReachability(0, nil),
		Store:      memory.NewBlobStore(),
	})
	require.NoError(t, err)
	assert.NotNil(t, p.deps.Logger)
}

func TestAdvice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		attempt  Attempt
		fallback bool
		want     string
		absent   string
	}{
		{"http content", Attempt{Strategy: StrategyHTTP, HasCaseContent: true}, true, "plain HTTP client", ""},
		{"http no content", Attempt{Strategy: StrategyHTTP}, true, "Did NOT find", ""},
		{"http shell", Attempt{Strategy: StrategyHTTP, LooksJSShell: true}, true, "Trying the browser", ""},
		{
			"http shell without browser",
			Attempt{Strategy: StrategyHTTP, LooksJSShell: true}, false,
			"Enable browser.probe_enabled", "Trying the browser",
		},
		{"http failed", Attempt{Strategy: StrategyHTTP, Err: errFetch}, true, "trying the browser next", ""},
		{
			"http failed without browser",
			Attempt{Strategy: StrategyHTTP, Err: errFetch}, false,
			"fallback is disabled", "trying the browser",
		},
		{"browser content", Attempt{Strategy: StrategyBrowser, HasCaseContent: true}, true, "network panel", ""},
		{"browser nothing", Attempt{Strategy: StrategyBrowser}, true, "developer tools", ""},
		{"browser failed", Attempt{Strategy: StrategyBrowser, Err: errFetch}, true, "Chrome or Chromium", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text := strings.Join(Advice(tt.attempt, tt.fallback), "\n")
			assert.Contains(t, text, tt.want)
			if tt.absent != "" {
				assert.NotContains(t, text, tt.absent)
			}
		})
	}
}
