// Package htmldoc hosts the survey fill procedure on a parsed HTML document.
//
// Form-control state lives in attributes: a checked control carries the
// checked attribute and a control's value is its value attribute, so the
// rendered HTML reflects the fill.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Event is delivered to listeners while a dispatched event bubbles.
type Event struct {
	Type string
	// Target is the element the event was dispatched on.
	Target *Element
	// Current is the element whose listener is running.
	Current *Element
}

// Listener handles a dispatched event.
type Listener func(Event)

// Document is an in-memory HTML tree with a bubbling event registry.
type Document struct {
	doc       *goquery.Document
	listeners map[*html.Node]map[string][]Listener
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return &Document{
		doc:       goquery.NewDocumentFromNode(root),
		listeners: make(map[*html.Node]map[string][]Listener),
	}, nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node. Listeners registered on it see every
// bubbling event.
func (d *Document) Root() *Element {
	return d.wrap(d.doc.Selection)
}

// Find returns the elements matching selector anywhere in the document.
func (d *Document) Find(selector string) ([]*Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	return d.wrapAll(d.doc.FindMatcher(m)), nil
}

// On registers a document-level listener.
func (d *Document) On(eventType string, fn Listener) {
	d.Root().On(eventType, fn)
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("htmldoc: render: %w", err)
		}
	}
	return nil
}

// HTML returns the current tree as an HTML string.
func (d *Document) HTML() (string, error) {
	var b strings.Builder
	if err := d.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (d *Document) wrap(s *goquery.Selection) *Element {
	return &Element{doc: d, sel: s}
}

func (d *Document) wrapAll(s *goquery.Selection) []*Element {
	out := make([]*Element, 0, s.Length())
	s.Each(func(_ int, item *goquery.Selection) {
		out = append(out, d.wrap(item))
	})
	return out
}

func (d *Document) addListener(n *html.Node, eventType string, fn Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
}

// dispatch runs the listeners of target and each ancestor, innermost first.
func (d *Document) dispatch(target *Element, eventType string) {
	node := target.Node()
	for n := node; n != nil; n = n.Parent {
		fns := d.listeners[n][eventType]
		if len(fns) == 0 {
			continue
		}
		current := target
		if n != node {
			current = d.wrap(goquery.NewDocumentFromNode(n).Selection)
		}
		for _, fn := range fns {
			fn(Event{Type: eventType, Target: target, Current: current})
		}
	}
}
