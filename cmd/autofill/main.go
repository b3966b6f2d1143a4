package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grez-lucas/survey-autofill/internal/browser"
	"github.com/grez-lucas/survey-autofill/internal/config"
)

var (
	// Global flags
	verbose    bool
	envFile    string
	bin        string
	controlURL string
	headless   bool
	stealthOn  bool
	timeout    time.Duration

	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Randomly answer survey questions for automated testing",
	Long: `autofill answers every single-choice, multi-choice and matrix question of a
survey page with random choices, keeping the page's presentational widgets and
hidden inputs consistent with the chosen answers.

Settings are read from the environment (SURVEY_*) and an optional .env file;
flags override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err = config.Load(files...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cmd)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("bin") {
		cfg.BrowserBin = bin
	}
	if flags.Changed("control-url") {
		cfg.ControlURL = controlURL
	}
	if flags.Changed("headless") {
		cfg.Headless = headless
	}
	if flags.Changed("stealth") {
		cfg.Stealth = stealthOn
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
}

// sessionOptions maps the loaded configuration onto browser options.
func sessionOptions(extra ...browser.Option) []browser.Option {
	opts := []browser.Option{
		browser.WithBin(cfg.BrowserBin),
		browser.WithControlURL(cfg.ControlURL),
		browser.WithHeadless(cfg.Headless),
		browser.WithStealth(cfg.Stealth),
		browser.WithTimeout(cfg.Timeout),
		browser.WithLogger(logger),
	}
	return append(opts, extra...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env if present)")
	rootCmd.PersistentFlags().StringVar(&bin, "bin", "", "Chromium binary (or set SURVEY_BROWSER_BIN)")
	rootCmd.PersistentFlags().StringVar(&controlURL, "control-url", "", "Connect to a running browser (or set SURVEY_CONTROL_URL)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "Run the browser headless (or set SURVEY_HEADLESS)")
	rootCmd.PersistentFlags().BoolVar(&stealthOn, "stealth", true, "Apply stealth evasions to new tabs (or set SURVEY_STEALTH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "Navigation timeout (or set SURVEY_TIMEOUT)")

	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
