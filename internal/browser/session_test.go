package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grez-lucas/survey-autofill/internal/har"
	"github.com/grez-lucas/survey-autofill/internal/survey"
	"github.com/grez-lucas/survey-autofill/internal/survey/testutil"
)

// TestMode selects which tests touch a real browser.
type TestMode string

const (
	TestModeMock    TestMode = "mock"    // No browser
	TestModeBrowser TestMode = "browser" // Local headless Chromium
)

func getTestMode() TestMode {
	mode := os.Getenv("SURVEY_TEST_MODE")
	if mode == "" {
		return TestModeMock
	}
	return TestMode(mode)
}

// skipUnlessMode skips test if not in specified mode
func skipUnlessMode(t *testing.T, required TestMode) {
	t.Helper()
	if getTestMode() != required {
		t.Skipf("Skipping: requires SURVEY_TEST_MODE=%s", required)
	}
}

// serveHTML serves body for every path.
func serveHTML(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// setupTab starts a headless session and opens a tab, closing both via
// t.Cleanup.
func setupTab(t *testing.T, opts ...Option) *Tab {
	t.Helper()

	session, err := NewSession(append([]Option{WithStealth(false), WithTimeout(15 * time.Second)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	tab, err := session.NewTab()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tab.Close() })

	return tab
}

func TestScreenshotName(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	assert.Equal(t, "autofill-complete-2026-03-04T05-06-07-890Z.png", ScreenshotName("autofill-complete", at))
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{WithTimeout(0), WithFieldTimeout(-1), WithLogger(nil), WithHeadless(false)} {
		opt(&o)
	}

	assert.Equal(t, DefaultTimeout, o.timeout, "non-positive timeouts are ignored")
	assert.Equal(t, DefaultFieldTimeout, o.fieldTimeout)
	assert.NotNil(t, o.logger)
	assert.False(t, o.headless)
	assert.True(t, o.stealth)
}

func TestTab_FillSurvey_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	url := serveHTML(t, testutil.LoadFixture(t, "survey"))
	tab := setupTab(t)
	ctx := context.Background()

	require.NoError(t, tab.Open(ctx, url))

	// Count bubbling notifications the way the survey's own scripts would.
	tab.Page().MustEval(`() => {
		window.__events = { change: 0, input: 0 };
		document.addEventListener('change', () => window.__events.change++);
		document.addEventListener('input', () => window.__events.input++);
	}`)

	report, err := tab.Fill(ctx)
	require.NoError(t, err)
	require.NoError(t, tab.Settle(ctx, 200*time.Millisecond))

	assert.Equal(t, 6, report.Fields)
	assert.Equal(t, 5, report.FilledTotal())
	assert.Equal(t, 3, report.Rows)
	assert.Empty(t, report.Failures)

	snap, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.NoError(t, snap.Verify())

	checked := tab.Page().MustEval(`() => document.querySelectorAll('#div1 input:checked').length`).Int()
	assert.Equal(t, 1, checked)

	inputs := tab.Page().MustEval(`() => window.__events.input`).Int()
	assert.Equal(t, 2, inputs, "one input event per matrix row with a value control")
	changes := tab.Page().MustEval(`() => window.__events.change`).Int()
	assert.GreaterOrEqual(t, changes, 6)

	assert.Empty(t, tab.PageErrors())
}

func TestTab_FillMalformed_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	url := serveHTML(t, testutil.LoadFixture(t, "malformed"))
	tab := setupTab(t)
	ctx := context.Background()

	require.NoError(t, tab.Open(ctx, url))

	report, err := tab.Fill(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 3, report.Skipped)

	snap, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.NoError(t, snap.Verify())
	assert.Empty(t, tab.PageErrors())
}

func TestTab_FillInsideIFrame_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	inner := serveHTML(t, testutil.LoadFixture(t, "survey"))
	outer := serveHTML(t, `<html><body><h1>Embedded</h1><iframe id="survey" src="`+inner+`" width="800" height="600"></iframe></body></html>`)

	tab := setupTab(t)
	ctx := context.Background()

	require.NoError(t, tab.Open(ctx, outer))

	frames := QuestionFrames(tab.Page())
	require.Len(t, frames, 1)

	report, err := tab.Fill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, report.FilledTotal())

	snap, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.NoError(t, snap.Verify())

	html, count, err := CaptureHTML(tab.Page())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, html, `data-captured-iframe="true"`)
	assert.Contains(t, html, `topic="5"`)
}

func TestTab_Open_NoQuestions_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	url := serveHTML(t, `<html><body><p>Survey closed.</p></body></html>`)
	tab := setupTab(t, WithFieldTimeout(500*time.Millisecond))

	err := tab.Open(context.Background(), url)
	require.ErrorIs(t, err, ErrNoQuestions)

	_, err = tab.Fill(context.Background())
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestTab_ReplayRecording_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	const surveyURL = "http://survey.test/vm/wFQ0GOu.aspx"
	recording := &har.Log{Entries: []har.Entry{{
		Request: har.Request{Method: http.MethodGet, URL: surveyURL},
		Response: har.Response{
			Status:  http.StatusOK,
			Content: har.Content{MimeType: "text/html", Text: testutil.LoadFixture(t, "survey")},
		},
	}}}
	replayer := har.NewReplayer(recording)

	tab := setupTab(t, WithHijacker(replayer.Middleware()))
	ctx := context.Background()

	require.NoError(t, tab.Open(ctx, surveyURL))
	report, err := tab.Fill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, report.FilledTotal())

	shot := filepath.Join(t.TempDir(), "shots", ScreenshotName("autofill-complete", time.Now()))
	require.NoError(t, tab.Screenshot(shot, true))
	info, err := os.Stat(shot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// recordingPath returns a HAR recording under testdata/recordings, the
// directory scripts/sanitize-har -name writes to.
func recordingPath(name string) string {
	return filepath.Join("testdata", "recordings", name+".har.json")
}

func TestRecording_IsSanitized(t *testing.T) {
	rec, err := har.Load(recordingPath("survey"))
	require.NoError(t, err)
	require.NotEmpty(t, rec.Entries)

	assert.Equal(t, har.Sanitize(rec), rec, "committed recordings must already be sanitized")

	entry, ok := har.NewReplayer(rec).Lookup("http://survey.test/jq/replay.aspx")
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, entry.Response.Status)
	assert.Contains(t, entry.Response.Content.Text, survey.AttrTopic)
}

func TestTab_ReplayCommittedRecording_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	rec, err := har.Load(recordingPath("survey"))
	require.NoError(t, err)
	replayer := har.NewReplayer(rec)

	tab := setupTab(t, WithHijacker(replayer.Middleware()))
	ctx := context.Background()

	require.NoError(t, tab.Open(ctx, "http://survey.test/vm/replay.aspx"))
	report, err := tab.Fill(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.FilledTotal())
	assert.Equal(t, 2, report.Rows)

	snap, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.NoError(t, snap.Verify())
}

func TestTab_FillPreservesPageErrors_Browser(t *testing.T) {
	skipUnlessMode(t, TestModeBrowser)

	page := strings.Replace(testutil.LoadFixture(t, "survey"), "</body>",
		`<script>document.addEventListener('change', () => { throw new Error('validator exploded') })</script></body>`, 1)
	url := serveHTML(t, page)
	tab := setupTab(t)
	ctx := context.Background()

	require.NoError(t, tab.Open(ctx, url))
	_, err := tab.Fill(ctx)
	require.NoError(t, err, "listener exceptions do not fail the fill")
	require.NoError(t, tab.Settle(ctx, 300*time.Millisecond))

	errs := tab.PageErrors()
	require.NotEmpty(t, errs)
	assert.Contains(t, strings.Join(errs, "\n"), "validator exploded")

	snap, err := tab.Snapshot(ctx)
	require.NoError(t, err)
	assert.NoError(t, snap.Verify())
	assert.Equal(t, 1, snap.Count(survey.KindMatrix))
}
