// Package config loads runtime settings for the autofill CLI from the
// environment, an optional .env file and YAML target lists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvURL           = "SURVEY_URL"
	EnvBrowserBin    = "SURVEY_BROWSER_BIN"
	EnvControlURL    = "SURVEY_CONTROL_URL"
	EnvHeadless      = "SURVEY_HEADLESS"
	EnvStealth       = "SURVEY_STEALTH"
	EnvTimeout       = "SURVEY_TIMEOUT"
	EnvSettle        = "SURVEY_SETTLE"
	EnvScreenshotDir = "SURVEY_SCREENSHOT_DIR"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultSettle  = time.Second
)

// Config holds browser and run settings. CLI flags override these values.
type Config struct {
	URL           string
	BrowserBin    string
	ControlURL    string
	Headless      bool
	Stealth       bool
	Timeout       time.Duration
	Settle        time.Duration
	ScreenshotDir string
}

func Default() Config {
	return Config{
		Headless: true,
		Stealth:  true,
		Timeout:  DefaultTimeout,
		Settle:   DefaultSettle,
	}
}

// DefaultEnvFile is loaded when no dotenv file is named; it may be absent.
const DefaultEnvFile = ".env"

// Load reads the given dotenv files into the process environment and builds
// a Config from it. Named files must exist. With no files, DefaultEnvFile
// in the working directory is loaded if present.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvURL); ok {
		cfg.URL = v
	}
	if v, ok := lookup(EnvBrowserBin); ok {
		cfg.BrowserBin = v
	}
	if v, ok := lookup(EnvControlURL); ok {
		cfg.ControlURL = v
	}
	if v, ok := lookup(EnvScreenshotDir); ok {
		cfg.ScreenshotDir = v
	}

	var errs []error
	if v, ok := lookup(EnvHeadless); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvHeadless, err))
		} else {
			cfg.Headless = b
		}
	}
	if v, ok := lookup(EnvStealth); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvStealth, err))
		} else {
			cfg.Stealth = b
		}
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTimeout, err))
		} else {
			cfg.Timeout = d
		}
	}
	if v, ok := lookup(EnvSettle); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSettle, err))
		} else {
			cfg.Settle = d
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseDuration accepts Go durations ("1m30s") and bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative duration %q", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", v)
	}
	return d, nil
}
