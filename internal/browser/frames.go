package browser

import (
	"time"

	"github.com/go-rod/rod"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

// WaitForIFrames recursively waits for DOM stability on all visible iframes
// so embedded survey frames are loaded before they are filled.
func WaitForIFrames(page *rod.Page) error {
	if err := page.WaitDOMStable(time.Second, 0); err != nil {
		return err
	}

	iframes, err := page.Elements("iframe")
	if err != nil {
		return nil
	}

	for _, iframe := range iframes {
		visible, _ := iframe.Visible()
		if !visible {
			continue
		}

		frame, err := iframe.Frame()
		if err != nil {
			continue
		}

		if err := WaitForIFrames(frame); err != nil {
			return err
		}
	}
	return nil
}

// QuestionFrames returns the page and every nested frame that holds at
// least one question container, outermost first. Frames that cannot be
// entered (cross-origin, detached) are skipped.
func QuestionFrames(page *rod.Page) []*rod.Page {
	var frames []*rod.Page

	if fields, err := page.Elements(survey.SelectorField); err == nil && len(fields) > 0 {
		frames = append(frames, page)
	}

	iframes, err := page.Elements("iframe")
	if err != nil {
		return frames
	}
	for _, iframe := range iframes {
		frame, err := iframe.Frame()
		if err != nil {
			continue
		}
		frames = append(frames, QuestionFrames(frame)...)
	}

	return frames
}

// documentElement returns the root element of a page or frame.
func documentElement(page *rod.Page) (*rod.Element, error) {
	return page.ElementByJS(rod.Eval(`() => document.documentElement`))
}
