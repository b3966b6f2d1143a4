package survey

import (
	"go.uber.org/zap"
)

// Filler runs the randomized fill procedure.
type Filler struct {
	rand Rand
	log  *zap.Logger
}

// Option configures a Filler.
type Option func(*Filler)

// WithRand substitutes the random source, e.g. a seeded *rand.Rand for
// reproducible runs.
func WithRand(r Rand) Option {
	return func(f *Filler) {
		if r != nil {
			f.rand = r
		}
	}
}

// WithLogger sets the logger used for per-field debug output.
func WithLogger(l *zap.Logger) Option {
	return func(f *Filler) {
		if l != nil {
			f.log = l
		}
	}
}

func NewFiller(opts ...Option) *Filler {
	f := &Filler{
		rand: DefaultRand,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fill answers every question container below root using the default
// Filler.
func Fill(root Element) Report {
	return NewFiller().Fill(root)
}

// Fill answers every question container below root. It never fails: empty
// containers are skipped, unknown types ignored and host errors collected
// in the report.
func (f *Filler) Fill(root Element) Report {
	report := Report{Filled: make(map[Kind]int)}
	if root == nil {
		return report
	}

	fields, err := root.Elements(SelectorField)
	if err != nil {
		report.Failures = append(report.Failures, &FillError{Operation: "discover fields", Cause: err})
		return report
	}

	for _, field := range fields {
		report.Fields++
		f.fillField(field, &report)
	}

	f.log.Debug("survey filled",
		zap.Int("fields", report.Fields),
		zap.Int("filled", report.FilledTotal()),
		zap.Int("skipped", report.Skipped),
		zap.Int("ignored", report.Ignored),
		zap.Int("failures", len(report.Failures)),
	)

	return report
}

// fieldPass carries the per-container context used for error reporting.
type fieldPass struct {
	field  Element
	topic  string
	kind   Kind
	report *Report
	log    *zap.Logger
}

// ok records err against the container and reports whether the operation
// succeeded.
func (p *fieldPass) ok(op string, err error) bool {
	if err == nil {
		return true
	}
	p.report.Failures = append(p.report.Failures, &FillError{
		Topic:     p.topic,
		Kind:      p.kind,
		Operation: op,
		Cause:     err,
	})
	p.log.Debug("fill operation failed",
		zap.String("topic", p.topic),
		zap.Stringer("kind", p.kind),
		zap.String("op", op),
		zap.Error(err),
	)
	return false
}

func (f *Filler) fillField(field Element, report *Report) {
	p := &fieldPass{field: field, report: report, log: f.log}

	topic, _, err := field.Attribute(AttrTopic)
	if !p.ok("read topic", err) {
		return
	}
	p.topic = topic

	raw, _, err := field.Attribute(AttrType)
	if !p.ok("read type", err) {
		return
	}
	p.kind = Kind(raw)

	var filled bool
	switch p.kind {
	case KindSingleChoice:
		filled = f.fillSingle(p)
	case KindMultiChoice:
		filled = f.fillMulti(p)
	case KindMatrix:
		filled = f.fillMatrix(p)
	default:
		report.Ignored++
		f.log.Debug("ignoring field", zap.String("topic", topic), zap.String("type", raw))
		return
	}

	if filled {
		report.Filled[p.kind]++
	} else {
		report.Skipped++
	}
}

func (f *Filler) fillSingle(p *fieldPass) bool {
	radios, err := p.field.Elements(SelectorRadio)
	if !p.ok("query radios", err) || len(radios) == 0 {
		return false
	}

	chosen := radios[RandIndex(f.rand, len(radios))]

	for _, radio := range radios {
		p.mark(radio, false, SelectorRadioWrapper, SelectorRadioMarker)
	}
	p.mark(chosen, true, SelectorRadioWrapper, SelectorRadioMarker)
	p.ok("dispatch change", chosen.Dispatch(EventChange))

	return true
}

func (f *Filler) fillMulti(p *fieldPass) bool {
	boxes, err := p.field.Elements(SelectorCheckbox)
	if !p.ok("query checkboxes", err) || len(boxes) == 0 {
		return false
	}

	count := SelectionCount(f.rand, len(boxes))
	selected := Shuffle(f.rand, boxes)[:count]

	for _, box := range boxes {
		p.mark(box, false, SelectorCheckboxWrapper, SelectorCheckboxMarker)
	}
	for _, box := range selected {
		p.mark(box, true, SelectorCheckboxWrapper, SelectorCheckboxMarker)
		p.ok("dispatch change", box.Dispatch(EventChange))
	}

	return true
}

func (f *Filler) fillMatrix(p *fieldPass) bool {
	rows, err := p.field.Elements(SelectorMatrixRow)
	if !p.ok("query rows", err) {
		return false
	}

	filled := false
	for _, row := range rows {
		if f.fillRow(p, row) {
			p.report.Rows++
			filled = true
		}
	}
	return filled
}

func (f *Filler) fillRow(p *fieldPass, row Element) bool {
	choices, err := row.Elements(SelectorRating)
	if !p.ok("query ratings", err) || len(choices) == 0 {
		return false
	}

	chosen := choices[RandIndex(f.rand, len(choices))]

	for _, c := range choices {
		p.ok("clear rating", c.RemoveClass(ClassRateOn, ClassRateOnLarge))
		p.ok("clear rating", c.AddClass(ClassRateOff, ClassRateOffLarge))
	}
	p.ok("set rating", chosen.RemoveClass(ClassRateOff, ClassRateOffLarge))
	p.ok("set rating", chosen.AddClass(ClassRateOn, ClassRateOnLarge))

	// The visual state stands on its own when the row has no value control.
	input := p.rowInput(row)
	if input == nil {
		return true
	}

	value, _, err := chosen.Attribute(AttrRatingValue)
	if !p.ok("read rating value", err) {
		return true
	}
	if p.ok("set row value", input.SetValue(value)) {
		p.ok("dispatch input", input.Dispatch(EventInput))
		p.ok("dispatch change", input.Dispatch(EventChange))
	}

	return true
}

// rowInput returns the hidden control holding a matrix row's value, or nil.
func (p *fieldPass) rowInput(row Element) Element {
	id, found, err := row.Attribute(AttrRowID)
	if !p.ok("read row id", err) || !found || id == "" {
		return nil
	}
	inputs, err := p.field.Elements(hiddenInputSelector(id))
	if !p.ok("query row input", err) || len(inputs) == 0 {
		return nil
	}
	return inputs[0]
}

// mark sets a choice control's checked state and mirrors it onto its
// presentational marker when one exists.
func (p *fieldPass) mark(control Element, checked bool, wrapperSel, markerSel string) {
	p.ok("set checked", control.SetChecked(checked))

	marker, err := presentationMarker(control, wrapperSel, markerSel)
	if !p.ok("find marker", err) || marker == nil {
		return
	}
	if checked {
		p.ok("add checked class", marker.AddClass(ClassChecked))
	} else {
		p.ok("remove checked class", marker.RemoveClass(ClassChecked))
	}
}

// presentationMarker finds the first marker inside the control's wrapper.
func presentationMarker(control Element, wrapperSel, markerSel string) (Element, error) {
	wrapper, err := control.Closest(wrapperSel)
	if err != nil || wrapper == nil {
		return nil, err
	}
	markers, err := wrapper.Elements(markerSel)
	if err != nil || len(markers) == 0 {
		return nil, err
	}
	return markers[0], nil
}
