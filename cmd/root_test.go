package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/ecourts-cnr/internal/config"
	"github.com/JakeFAU/ecourts-cnr/internal/ecourts"
	"github.com/JakeFAU/ecourts-cnr/internal/hash/sha256"
	"github.com/JakeFAU/ecourts-cnr/internal/headless/detector"
	"github.com/JakeFAU/ecourts-cnr/internal/lookup"
	"github.com/JakeFAU/ecourts-cnr/internal/probe"
	"github.com/JakeFAU/ecourts-cnr/internal/results"
	"github.com/JakeFAU/ecourts-cnr/internal/storage/memory"
)

type pageBrowser struct{ page string }

func (b pageBrowser) Navigate(context.Context, string) error        { return nil }
func (b pageBrowser) FillCNR(context.Context, string, string) error { return nil }
func (b pageBrowser) PageHTML(context.Context) (string, error)      { return b.page, nil }
func (b pageBrowser) Close() error                                  { return nil }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, time.October, 16, 10, 0, 0, 0, time.Local) }

type stubFetcher struct{ body string }

func (s stubFetcher) Fetch(_ context.Context, req ecourts.FetchRequest) (ecourts.FetchResponse, error) {
	return ecourts.FetchResponse{URL: req.URL, StatusCode: 200, Body: []byte(s.body)}, nil
}

type fakeApp struct {
	page   string
	store  *memory.BlobStore
	closed bool
}

func (f *fakeApp) Close()              { f.closed = true }
func (f *fakeApp) Logger() *zap.Logger { return zap.NewNop() }

func (f *fakeApp) Checker(prompter ecourts.Prompter, todayOnly bool) (*lookup.Checker, error) {
	return lookup.New(lookup.Config{
		BaseURL:     "https://portal.example/",
		CNRSelector: "#cino",
		TodayOnly:   todayOnly,
	}, lookup.Deps{
		Open:     func(context.Context) (ecourts.Browser, error) { return pageBrowser{page: f.page}, nil },
		Prompter: prompter,
		Saver:    results.NewWriter(f.store),
		Clock:    fixedClock{},
	})
}

func (f *fakeApp) Prober() (*probe.Prober, func(), error) {
	p, err := probe.New(probe.Config{Target: "https://portal.example/"}, probe.Deps{
		HTTP:       stubFetcher{body: "<html>please enable javascript</html>"},
		Classifier: detector.NewReachability(0, nil),
		Store:      f.store,
		Hasher:     sha256.New(),
	})
	return p, func() {}, err
}

func withFakeApp(t *testing.T, fake *fakeApp) {
	t.Helper()
	original := newApp
	newApp = func(context.Context, config.Config, *zap.Logger) (App, error) {
		return fake, nil
	}
	t.Cleanup(func() { newApp = original })
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root, closeApp := newRootCmd()
	defer closeApp()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckPromptsForCNR(t *testing.T) {
	fake := &fakeApp{
		page:  "<html><body>Case Type CRIMINAL | Filing Number 123/2024 | 16-10-2026</body></html>",
		store: memory.NewBlobStore(),
	}
	withFakeApp(t, fake)

	out, err := execute(t, "MHAU019999992015\n\n", "check")
	require.NoError(t, err)

	assert.Contains(t, out, cnrPrompt)
	assert.Contains(t, out, "Searching for CNR: MHAU019999992015 ...")
	assert.Contains(t, out, lookup.CaptchaMessage)
	assert.Contains(t, out, `"case_type": "CRIMINAL"`)
	assert.Contains(t, out, `"listed_today": true`)
	assert.Contains(t, out, "Results saved to: memory://result_MHAU019999992015_20261016_100000.json")
	assert.Len(t, fake.store.Paths(), 1)
	assert.True(t, fake.closed)
}

func TestCheckTodayOnlySkips(t *testing.T) {
	fake := &fakeApp{page: "<html><body>Case Type CIVIL</body></html>", store: memory.NewBlobStore()}
	withFakeApp(t, fake)

	out, err := execute(t, "\n", "check", "--cnr", "MHAU019999992015", "--today")
	require.NoError(t, err)
	assert.Contains(t, out, "Case MHAU019999992015 is not listed today.")
	assert.NotContains(t, out, cnrPrompt)
	assert.Empty(t, fake.store.Paths())
}

func TestCheckMissingCNR(t *testing.T) {
	withFakeApp(t, &fakeApp{store: memory.NewBlobStore()})

	_, err := execute(t, "\n", "check")
	require.ErrorIs(t, err, ecourts.ErrMissingCNR)
}

func TestCheckEmptyCapture(t *testing.T) {
	fake := &fakeApp{page: "", store: memory.NewBlobStore()}
	withFakeApp(t, fake)

	_, err := execute(t, "\n", "check", "--cnr", "MHAU019999992015")
	require.ErrorIs(t, err, ecourts.ErrEmptyCapture)
	assert.Empty(t, fake.store.Paths())
	assert.True(t, fake.closed, "app must be closed when the command fails")
}

func TestProbePrintsAdvice(t *testing.T) {
	fake := &fakeApp{store: memory.NewBlobStore()}
	withFakeApp(t, fake)

	out, err := execute(t, "", "probe")
	require.NoError(t, err)
	assert.Contains(t, out, "Probing https://portal.example/")
	assert.Contains(t, out, "1) http fetch: OK")
	assert.Contains(t, out, "   sha256 42ff55a606a76d0b884b14d5ae5230138249b593feec5b29c32c1018391a1290\n")
	assert.Contains(t, out, "Enable browser.probe_enabled")
	assert.NotContains(t, out, "Trying the browser next")
	assert.Contains(t, out, "Browser fallback is disabled")
	assert.Equal(t, []string{probe.HTTPSnapshot}, fake.store.Paths())
}

func TestAppFactoryFailure(t *testing.T) {
	original := newApp
	newApp = func(context.Context, config.Config, *zap.Logger) (App, error) {
		return nil, errors.New("bucket missing")
	}
	t.Cleanup(func() { newApp = original })

	_, err := execute(t, "", "probe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket missing")
}

func TestMissingConfigFile(t *testing.T) {
	withFakeApp(t, &fakeApp{store: memory.NewBlobStore()})

	_, err := execute(t, "", "--config", "/nonexistent/ecourts.yaml", "probe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
