package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grez-lucas/survey-autofill/internal/browser"
	"github.com/grez-lucas/survey-autofill/internal/har"
	"github.com/grez-lucas/survey-autofill/internal/survey"
)

var (
	fillRuns        int
	fillSettle      time.Duration
	fillScreenshot  bool
	fillDump        string
	fillReplay      string
	fillPassthrough bool
	fillSeed        uint64
)

var fillCmd = &cobra.Command{
	Use:   "fill [url]",
	Short: "Fill a live survey page in Chromium",
	Long: `Opens the survey in a browser, answers every question (repeated --runs
times), waits for the page to settle and verifies the resulting answer state.
Exits non-zero when a question is left in an inconsistent state or the page
reports errors.

The URL defaults to SURVEY_URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().IntVar(&fillRuns, "runs", 1, "Number of fill passes")
	fillCmd.Flags().DurationVar(&fillSettle, "settle", 0, "Wait after filling (default SURVEY_SETTLE)")
	fillCmd.Flags().BoolVar(&fillScreenshot, "screenshot", false, "Save a full-page screenshot to SURVEY_SCREENSHOT_DIR")
	fillCmd.Flags().StringVar(&fillDump, "dump", "", "Write the filled page, iframes inlined, to this path")
	fillCmd.Flags().StringVar(&fillReplay, "replay", "", "Serve requests from a HAR recording instead of the network")
	fillCmd.Flags().BoolVar(&fillPassthrough, "passthrough", false, "With --replay, let unrecorded requests reach the network")
	fillCmd.Flags().Uint64Var(&fillSeed, "seed", 0, "Seed the random source for a reproducible fill")
}

func runFill(cmd *cobra.Command, args []string) error {
	url := cfg.URL
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		return errors.New("no survey URL: pass one or set SURVEY_URL")
	}
	settle := cfg.Settle
	if cmd.Flags().Changed("settle") {
		settle = fillSettle
	}

	var extra []browser.Option
	if fillReplay != "" {
		rec, err := har.Load(fillReplay)
		if err != nil {
			return err
		}
		replayer := har.NewReplayer(rec, har.WithLogger(logger), har.WithPassthrough(fillPassthrough))
		logger.Info("replaying recording", zap.String("path", fillReplay), zap.Any("stats", replayer.Stats()))
		extra = append(extra, browser.WithHijacker(replayer.Middleware()))
	}
	if cmd.Flags().Changed("seed") {
		extra = append(extra, browser.WithFillOptions(survey.WithRand(seededRand(fillSeed))))
	}

	session, err := browser.NewSession(sessionOptions(extra...)...)
	if err != nil {
		return err
	}
	defer session.Close()

	tab, err := session.NewTab()
	if err != nil {
		return err
	}
	defer tab.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	screenshotPrefix := ""
	if fillScreenshot {
		screenshotPrefix = "fill"
	}
	report, err := fillTab(ctx, tab, url, fillRuns, settle, screenshotPrefix)
	printReport(cmd.OutOrStdout(), url, report)

	if fillDump != "" {
		html, iframes, dumpErr := browser.CaptureHTML(tab.Page())
		if dumpErr != nil {
			return errors.Join(err, dumpErr)
		}
		if dumpErr := os.WriteFile(fillDump, []byte(html), 0o644); dumpErr != nil {
			return errors.Join(err, fmt.Errorf("write dump: %w", dumpErr))
		}
		logger.Info("wrote page dump", zap.String("path", fillDump), zap.Int("iframes", iframes))
	}

	return err
}

// fillTab opens url, fills it runs times, settles and verifies the result.
// A non-empty screenshotPrefix saves a full-page screenshot. The returned
// report merges all runs; the error joins invariant violations and page
// errors.
func fillTab(ctx context.Context, tab *browser.Tab, url string, runs int, settle time.Duration, screenshotPrefix string) (survey.Report, error) {
	report := survey.Report{Filled: make(map[survey.Kind]int)}

	if err := tab.Open(ctx, url); err != nil {
		return report, err
	}

	if runs < 1 {
		runs = 1
	}
	for i := range runs {
		r, err := tab.Fill(ctx)
		if err != nil {
			return report, fmt.Errorf("run %d: %w", i+1, err)
		}
		report.Merge(r)
	}

	if err := tab.Settle(ctx, settle); err != nil {
		return report, err
	}

	if screenshotPrefix != "" {
		path := filepath.Join(cfg.ScreenshotDir, browser.ScreenshotName(screenshotPrefix, time.Now()))
		if err := tab.Screenshot(path, true); err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
		} else {
			logger.Info("saved screenshot", zap.String("path", path))
		}
	}

	snap, err := tab.Snapshot(ctx)
	if err != nil {
		return report, err
	}

	var errs []error
	if err := snap.Verify(); err != nil {
		errs = append(errs, err)
	}
	if pageErrs := tab.PageErrors(); len(pageErrs) > 0 {
		for _, msg := range pageErrs {
			logger.Warn("page error", zap.String("url", url), zap.String("message", msg))
		}
		errs = append(errs, fmt.Errorf("%w: %d", errPageErrors, len(pageErrs)))
	}
	return report, errors.Join(errs...)
}
