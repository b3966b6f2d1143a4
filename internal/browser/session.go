package browser

import (
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

var (
	ErrNoQuestions = errors.New("no survey questions found")
	ErrNavigation  = errors.New("navigation failed")
)

// Session owns a browser process (or a connection to a remote one) and
// hands out tabs.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opts     options
	filler   *survey.Filler
	log      *zap.Logger
}

// NewSession launches a browser, or connects to one when WithControlURL is
// given.
func NewSession(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		opts:   o,
		log:    o.logger,
		filler: survey.NewFiller(append([]survey.Option{survey.WithLogger(o.logger)}, o.fillOpts...)...),
	}

	controlURL := o.controlURL
	if controlURL == "" {
		l := launcher.New().
			Headless(o.headless).
			Set("disable-blink-features", "AutomationControlled").
			Set("no-first-run").
			Set("no-default-browser-check").
			Set("window-size", "1920,1080")
		if o.bin != "" {
			l = l.Bin(o.bin)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		controlURL = u
		s.launcher = l
		s.log.Info("launched local chrome", zap.String("url", u), zap.Bool("headless", o.headless))
	} else {
		s.log.Info("connecting to remote chrome", zap.String("url", controlURL))
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		s.killLauncher()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b

	return s, nil
}

// NewTab opens a blank tab with the session's stealth and hijack settings.
func (s *Session) NewTab() (*Tab, error) {
	var (
		page *rod.Page
		err  error
	)
	if s.opts.stealth {
		page, err = stealth.Page(s.browser)
	} else {
		page, err = s.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: new tab: %w", err)
	}

	t := &Tab{page: page, session: s}

	if s.opts.hijacker != nil {
		router := page.HijackRequests()
		if err := router.Add("*", "", s.opts.hijacker); err != nil {
			_ = page.Close()
			return nil, fmt.Errorf("browser: hijack: %w", err)
		}
		go router.Run()
		t.router = router
	}

	t.watchErrors()

	return t, nil
}

// Browser returns the underlying Rod browser.
func (s *Session) Browser() *rod.Browser {
	return s.browser
}

// Close shuts the browser down and kills a locally launched process.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	s.killLauncher()
	return err
}

func (s *Session) killLauncher() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
}
