package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grez-lucas/survey-autofill/internal/browser"
	"github.com/grez-lucas/survey-autofill/internal/config"
	"github.com/grez-lucas/survey-autofill/internal/runner"
	"github.com/grez-lucas/survey-autofill/internal/survey"
)

var batchParallel int

var batchCmd = &cobra.Command{
	Use:   "batch <targets.yaml>",
	Short: "Fill every survey listed in a YAML target file",
	Long: `Fills many surveys in one browser, one tab per target, with at most
--parallel tabs open at a time. A failing target does not stop the others.

Example targets.yaml:

  parallel: 2
  targets:
    - name: onboarding
      url: https://survey.example.com/vm/abc.aspx
      runs: 3
      screenshot: true`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 0, "Tabs filled at once (overrides the target file)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	tf, err := config.LoadTargets(args[0])
	if err != nil {
		return err
	}
	parallel := tf.Parallel
	if batchParallel > 0 {
		parallel = batchParallel
	}

	session, err := browser.NewSession(sessionOptions()...)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fill := func(ctx context.Context, target config.Target) (survey.Report, error) {
		tab, err := session.NewTab()
		if err != nil {
			return survey.Report{}, err
		}
		defer tab.Close()

		prefix := ""
		if target.Screenshot {
			prefix = target.Name
		}
		return fillTab(ctx, tab, target.URL, target.Runs, cfg.Settle, prefix)
	}

	results := runner.Run(ctx, tf.Targets, parallel, fill, logger)

	out := cmd.OutOrStdout()
	for _, r := range results {
		printReport(out, r.Target.Name, r.Report)
		if r.Err != nil {
			fmt.Fprintf(out, "  error: %v\n", r.Err)
		}
	}
	return runner.Err(results)
}
