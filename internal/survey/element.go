package survey

// Element is a node of a DOM-like tree the fill procedure can read and
// mutate. Implementations exist for live browser pages and for parsed HTML
// documents.
type Element interface {
	// Attribute returns the named attribute and whether it is present.
	Attribute(name string) (string, bool, error)
	// Elements returns the descendants matching a CSS selector in document
	// order.
	Elements(selector string) ([]Element, error)
	// Closest returns the nearest inclusive ancestor matching a CSS selector,
	// or nil when there is none.
	Closest(selector string) (Element, error)

	Checked() (bool, error)
	SetChecked(checked bool) error
	HasClass(name string) (bool, error)
	AddClass(names ...string) error
	RemoveClass(names ...string) error
	Value() (string, error)
	SetValue(value string) error

	// Dispatch fires an event of the given type on the element. The event
	// bubbles to ancestor listeners.
	Dispatch(eventType string) error
}
