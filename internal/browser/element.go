// Package browser hosts the survey fill procedure on live pages driven by
// Rod.
package browser

import (
	"errors"

	"github.com/go-rod/rod"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

var _ survey.Element = (*Element)(nil)

// Element adapts a Rod element to survey.Element. Every call is a CDP
// round-trip evaluated on the remote node.
type Element struct {
	el *rod.Element
}

func NewElement(el *rod.Element) *Element {
	return &Element{el: el}
}

// Rod returns the underlying Rod element.
func (e *Element) Rod() *rod.Element {
	return e.el
}

func (e *Element) Attribute(name string) (string, bool, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Element) Elements(selector string) ([]survey.Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]survey.Element, len(els))
	for i, el := range els {
		out[i] = NewElement(el)
	}
	return out, nil
}

func (e *Element) Closest(selector string) (survey.Element, error) {
	found, err := e.el.ElementByJS(rod.Eval(`(s) => this.closest(s)`, selector))
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return NewElement(found), nil
}

func (e *Element) Checked() (bool, error) {
	res, err := e.el.Eval(`() => !!this.checked`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *Element) SetChecked(checked bool) error {
	_, err := e.el.Eval(`(c) => { this.checked = c }`, checked)
	return err
}

func (e *Element) HasClass(name string) (bool, error) {
	res, err := e.el.Eval(`(c) => this.classList.contains(c)`, name)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *Element) AddClass(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := e.el.Eval(`(names) => this.classList.add(...names)`, names)
	return err
}

func (e *Element) RemoveClass(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := e.el.Eval(`(names) => this.classList.remove(...names)`, names)
	return err
}

func (e *Element) Value() (string, error) {
	res, err := e.el.Eval(`() => this.value == null ? "" : String(this.value)`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e *Element) SetValue(value string) error {
	_, err := e.el.Eval(`(v) => { this.value = v }`, value)
	return err
}

func (e *Element) Dispatch(eventType string) error {
	_, err := e.el.Eval(`(t) => { this.dispatchEvent(new Event(t, { bubbles: true })) }`, eventType)
	return err
}
