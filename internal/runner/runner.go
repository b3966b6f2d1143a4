// Package runner fills a list of survey targets with bounded concurrency.
package runner

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grez-lucas/survey-autofill/internal/config"
	"github.com/grez-lucas/survey-autofill/internal/survey"
)

// FillFunc fills one target and returns the merged report of its runs.
type FillFunc func(ctx context.Context, target config.Target) (survey.Report, error)

// Result is the outcome of one target.
type Result struct {
	Target   config.Target
	Report   survey.Report
	Err      error
	Duration time.Duration
}

// Run calls fn for every target, at most parallel at a time. A failing
// target does not stop the others; results keep the order of targets.
// Only cancellation of ctx ends the run early, leaving unstarted targets
// with ctx.Err().
func Run(ctx context.Context, targets []config.Target, parallel int, fn FillFunc, log *zap.Logger) []Result {
	if log == nil {
		log = zap.NewNop()
	}
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, target := range targets {
		results[i].Target = target
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			start := time.Now()
			report, err := fn(gctx, target)
			results[i].Report = report
			results[i].Err = err
			results[i].Duration = time.Since(start)

			if err != nil {
				log.Warn("target failed", zap.String("target", target.Name), zap.Error(err))
			} else {
				log.Info("target filled",
					zap.String("target", target.Name),
					zap.Int("fields", report.Fields),
					zap.Int("filled", report.FilledTotal()),
					zap.Int("failures", len(report.Failures)),
					zap.Duration("duration", results[i].Duration),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Err joins the errors of all failed results.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
