package browser

import (
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultFieldTimeout = 10 * time.Second
)

type options struct {
	bin          string
	controlURL   string
	headless     bool
	stealth      bool
	timeout      time.Duration
	fieldTimeout time.Duration
	hijacker     func(*rod.Hijack)
	logger       *zap.Logger
	fillOpts     []survey.Option
}

func defaultOptions() options {
	return options{
		headless:     true,
		stealth:      true,
		timeout:      DefaultTimeout,
		fieldTimeout: DefaultFieldTimeout,
		logger:       zap.NewNop(),
	}
}

// Option configures a Session.
type Option func(*options)

// WithBin sets the Chromium binary to launch.
func WithBin(path string) Option {
	return func(o *options) { o.bin = path }
}

// WithControlURL connects to an already running browser instead of
// launching one.
func WithControlURL(u string) Option {
	return func(o *options) { o.controlURL = u }
}

func WithHeadless(enabled bool) Option {
	return func(o *options) { o.headless = enabled }
}

// WithStealth toggles go-rod/stealth evasions on new tabs.
func WithStealth(enabled bool) Option {
	return func(o *options) { o.stealth = enabled }
}

// WithTimeout bounds navigation and page loads.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithFieldTimeout bounds the wait for the first question container.
func WithFieldTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fieldTimeout = d
		}
	}
}

// WithHijacker routes every request of new tabs through handler, e.g. a HAR
// replayer's middleware.
func WithHijacker(handler func(*rod.Hijack)) Option {
	return func(o *options) { o.hijacker = handler }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFillOptions configures the survey.Filler used by tabs.
func WithFillOptions(opts ...survey.Option) Option {
	return func(o *options) { o.fillOpts = append(o.fillOpts, opts...) }
}
