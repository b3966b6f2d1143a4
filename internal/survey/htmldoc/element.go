package htmldoc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

var _ survey.Element = (*Element)(nil)

// Element is a single node of a Document.
type Element struct {
	doc *Document
	sel *goquery.Selection
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	return e.sel.Get(0)
}

// On registers a listener for events dispatched on e or its descendants.
func (e *Element) On(eventType string, fn Listener) {
	e.doc.addListener(e.Node(), eventType, fn)
}

func (e *Element) Attribute(name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e *Element) Elements(selector string) ([]survey.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	found := e.sel.FindMatcher(m)
	out := make([]survey.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, e.doc.wrap(s))
	})
	return out, nil
}

func (e *Element) Closest(selector string) (survey.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	found := e.sel.ClosestMatcher(m)
	if found.Length() == 0 {
		return nil, nil
	}
	return e.doc.wrap(found.First()), nil
}

func (e *Element) Checked() (bool, error) {
	_, ok := e.sel.Attr("checked")
	return ok, nil
}

func (e *Element) SetChecked(checked bool) error {
	if checked {
		e.sel.SetAttr("checked", "checked")
	} else {
		e.sel.RemoveAttr("checked")
	}
	return nil
}

func (e *Element) HasClass(name string) (bool, error) {
	return e.sel.HasClass(name), nil
}

func (e *Element) AddClass(names ...string) error {
	if len(names) > 0 {
		e.sel.AddClass(names...)
		e.normalizeClass()
	}
	return nil
}

// RemoveClass removes the named classes. Unlike goquery, an empty call
// leaves the class list alone.
func (e *Element) RemoveClass(names ...string) error {
	if len(names) > 0 {
		e.sel.RemoveClass(names...)
		e.normalizeClass()
	}
	return nil
}

// normalizeClass collapses the whitespace goquery leaves behind when it
// edits the class attribute.
func (e *Element) normalizeClass() {
	if class, ok := e.sel.Attr("class"); ok {
		e.sel.SetAttr("class", strings.Join(strings.Fields(class), " "))
	}
}

func (e *Element) Value() (string, error) {
	return e.sel.AttrOr("value", ""), nil
}

func (e *Element) SetValue(value string) error {
	e.sel.SetAttr("value", value)
	return nil
}

func (e *Element) Dispatch(eventType string) error {
	e.doc.dispatch(e, eventType)
	return nil
}

func compile(selector string) (cascadia.Selector, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: selector %q: %w", selector, err)
	}
	return m, nil
}
