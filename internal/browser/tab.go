package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

// Tab is one page of a Session.
type Tab struct {
	page    *rod.Page
	session *Session
	router  *rod.HijackRouter

	mu     sync.Mutex
	errors []string
}

// Page returns the underlying Rod page.
func (t *Tab) Page() *rod.Page {
	return t.page
}

// Open navigates to url and waits until the survey has rendered its first
// question container.
func (t *Tab) Open(ctx context.Context, url string) error {
	log := t.session.log.With(zap.String("url", url))

	navCtx, cancel := context.WithTimeout(ctx, t.session.opts.timeout)
	defer cancel()
	page := t.page.Context(navCtx)

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %s: wait load: %v", ErrNavigation, url, err)
	}
	if err := WaitForIFrames(page); err != nil {
		log.Debug("iframes did not settle", zap.Error(err))
	}

	fieldCtx, cancelField := context.WithTimeout(ctx, t.session.opts.fieldTimeout)
	defer cancelField()
	if _, err := t.page.Context(fieldCtx).Element(survey.SelectorField); err != nil {
		// The container may live in an iframe.
		if len(QuestionFrames(t.page.Context(ctx))) == 0 {
			return fmt.Errorf("%w: %s", ErrNoQuestions, url)
		}
	}

	log.Debug("survey page ready")
	return nil
}

// Fill runs the fill procedure in every frame holding question containers.
func (t *Tab) Fill(ctx context.Context) (survey.Report, error) {
	report := survey.Report{Filled: make(map[survey.Kind]int)}

	frames := QuestionFrames(t.page.Context(ctx))
	if len(frames) == 0 {
		return report, ErrNoQuestions
	}

	for _, frame := range frames {
		root, err := documentElement(frame)
		if err != nil {
			return report, fmt.Errorf("browser: document element: %w", err)
		}
		report.Merge(t.session.filler.Fill(NewElement(root)))
	}

	t.session.log.Info("survey filled",
		zap.Int("frames", len(frames)),
		zap.Int("fields", report.Fields),
		zap.Int("filled", report.FilledTotal()),
		zap.Int("rows", report.Rows),
		zap.Int("skipped", report.Skipped),
		zap.Int("ignored", report.Ignored),
		zap.Int("failures", len(report.Failures)),
	)

	return report, nil
}

// Snapshot reads the answer state of every frame holding question
// containers.
func (t *Tab) Snapshot(ctx context.Context) (survey.Snapshot, error) {
	var snap survey.Snapshot

	for _, frame := range QuestionFrames(t.page.Context(ctx)) {
		root, err := documentElement(frame)
		if err != nil {
			return snap, fmt.Errorf("browser: document element: %w", err)
		}
		part, err := survey.Inspect(NewElement(root))
		if err != nil {
			return snap, err
		}
		snap.Fields = append(snap.Fields, part.Fields...)
	}

	return snap, nil
}

// Settle waits d so listeners reacting to the fill can finish.
func (t *Tab) Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Screenshot writes a PNG of the tab to path, creating parent directories.
func (t *Tab) Screenshot(path string, fullPage bool) error {
	buf, err := t.page.Screenshot(fullPage, nil)
	if err != nil {
		return fmt.Errorf("browser: screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("browser: screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("browser: write screenshot: %w", err)
	}
	return nil
}

// ScreenshotName builds a timestamped screenshot file name.
func ScreenshotName(prefix string, at time.Time) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(at.UTC().Format("2006-01-02T15:04:05.000Z"))
	return fmt.Sprintf("%s-%s.png", prefix, stamp)
}

// PageErrors returns uncaught exceptions and console errors observed since
// the tab opened.
func (t *Tab) PageErrors() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.errors...)
}

func (t *Tab) recordError(msg string) {
	t.mu.Lock()
	t.errors = append(t.errors, msg)
	t.mu.Unlock()
}

func (t *Tab) watchErrors() {
	wait := t.page.EachEvent(
		func(e *proto.RuntimeExceptionThrown) {
			msg := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				msg = e.ExceptionDetails.Exception.Description
			}
			t.recordError(msg)
		},
		func(e *proto.RuntimeConsoleAPICalled) {
			if e.Type != proto.RuntimeConsoleAPICalledTypeError {
				return
			}
			parts := make([]string, 0, len(e.Args))
			for _, arg := range e.Args {
				if arg.Description != "" {
					parts = append(parts, arg.Description)
				} else {
					parts = append(parts, arg.Value.String())
				}
			}
			t.recordError(strings.Join(parts, " "))
		},
	)
	go wait()
}

// Close stops request hijacking and closes the tab.
func (t *Tab) Close() error {
	if t.router != nil {
		_ = t.router.Stop()
	}
	return t.page.Close()
}
