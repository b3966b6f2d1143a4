package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grez-lucas/survey-autofill/internal/survey"
	"github.com/grez-lucas/survey-autofill/internal/survey/htmldoc"
)

var (
	fileOutput string
	fileSeed   uint64
)

var fileCmd = &cobra.Command{
	Use:   "file <in.html>",
	Short: "Fill a saved survey page without a browser",
	Long: `Parses a saved survey page, answers its questions in memory and optionally
writes the rendered result. No scripts run, so listeners on the page never see
the dispatched events.`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	fileCmd.Flags().StringVarP(&fileOutput, "output", "o", "", "Write the filled page to this path")
	fileCmd.Flags().Uint64Var(&fileSeed, "seed", 0, "Seed the random source for a reproducible fill")
}

func runFile(cmd *cobra.Command, args []string) error {
	in := args[0]
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open %s: %w", in, err)
	}
	defer f.Close()

	doc, err := htmldoc.Parse(f)
	if err != nil {
		return err
	}

	opts := []survey.Option{survey.WithLogger(logger)}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, survey.WithRand(seededRand(fileSeed)))
	}
	report := survey.NewFiller(opts...).Fill(doc.Root())
	printReport(cmd.OutOrStdout(), filepath.Base(in), report)

	snap, err := survey.Inspect(doc.Root())
	if err != nil {
		return err
	}
	verifyErr := snap.Verify()

	if fileOutput != "" {
		out, err := os.Create(fileOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", fileOutput, err)
		}
		if err := doc.Render(out); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		logger.Info("wrote filled page", zap.String("path", fileOutput))
	}

	return verifyErr
}
