package survey

import "strings"

// Markup conventions of the survey pages.
const (
	// Question containers
	SelectorField = ".field[topic]"
	AttrTopic     = "topic"
	AttrType      = "type"

	// Single-choice
	SelectorRadio        = `input[type="radio"]`
	SelectorRadioWrapper = ".jqradiowrapper"
	SelectorRadioMarker  = ".jqradio"

	// Multi-choice
	SelectorCheckbox        = `input[type="checkbox"]`
	SelectorCheckboxWrapper = ".jqcheckwrapper"
	SelectorCheckboxMarker  = ".jqcheck"

	ClassChecked = "jqchecked"

	// Matrix / rating scale
	SelectorMatrixRow = `tr[tp="d"]`
	SelectorRating    = "a[dval]"
	AttrRowID         = "fid"
	AttrRatingValue   = "dval"

	ClassRateOn       = "rate-on"
	ClassRateOnLarge  = "rate-onlarge"
	ClassRateOff      = "rate-off"
	ClassRateOffLarge = "rate-offlarge"
)

// Event types dispatched on mutated controls.
const (
	EventChange = "change"
	EventInput  = "input"
)

var cssStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// hiddenInputSelector matches the value control of a matrix row. An
// attribute selector is used so identifiers that are not valid CSS
// identifiers (leading digits, dots) still match instead of failing to
// compile.
func hiddenInputSelector(id string) string {
	return `input[id="` + cssStringEscaper.Replace(id) + `"]`
}
