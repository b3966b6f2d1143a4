package survey

import (
	"errors"
	"fmt"
	"slices"
)

// FieldState is the observed answer state of one question container.
type FieldState struct {
	Topic   string
	Kind    Kind
	Options int
	Checked int
	// Marked counts options whose presentational marker carries the checked
	// class.
	Marked int
	// Mismatched counts options whose marker disagrees with the control.
	Mismatched int
	Rows       []RowState
}

// RowState is the observed state of one matrix row.
type RowState struct {
	ID       string
	Options  int
	On       int
	Values   []string
	HasInput bool
	Value    string
}

// Snapshot is the answer state of every container in a document.
type Snapshot struct {
	Fields []FieldState
}

// Count returns the number of containers of kind k.
func (s Snapshot) Count(k Kind) int {
	n := 0
	for _, f := range s.Fields {
		if f.Kind == k {
			n++
		}
	}
	return n
}

// Inspect reads the answer state of every container below root.
func Inspect(root Element) (Snapshot, error) {
	var snap Snapshot

	fields, err := root.Elements(SelectorField)
	if err != nil {
		return snap, fmt.Errorf("inspect: query fields: %w", err)
	}

	for _, field := range fields {
		state, err := inspectField(field)
		if err != nil {
			return snap, fmt.Errorf("inspect: topic %s: %w", state.Topic, err)
		}
		snap.Fields = append(snap.Fields, state)
	}

	return snap, nil
}

func inspectField(field Element) (FieldState, error) {
	var state FieldState

	topic, _, err := field.Attribute(AttrTopic)
	if err != nil {
		return state, err
	}
	raw, _, err := field.Attribute(AttrType)
	if err != nil {
		return state, err
	}
	state.Topic, state.Kind = topic, Kind(raw)

	switch state.Kind {
	case KindSingleChoice:
		err = inspectChoices(field, &state, SelectorRadio, SelectorRadioWrapper, SelectorRadioMarker)
	case KindMultiChoice:
		err = inspectChoices(field, &state, SelectorCheckbox, SelectorCheckboxWrapper, SelectorCheckboxMarker)
	case KindMatrix:
		err = inspectMatrix(field, &state)
	}
	return state, err
}

func inspectChoices(field Element, state *FieldState, controlSel, wrapperSel, markerSel string) error {
	controls, err := field.Elements(controlSel)
	if err != nil {
		return err
	}
	state.Options = len(controls)

	for _, c := range controls {
		checked, err := c.Checked()
		if err != nil {
			return err
		}
		if checked {
			state.Checked++
		}

		marker, err := presentationMarker(c, wrapperSel, markerSel)
		if err != nil {
			return err
		}
		if marker == nil {
			continue
		}
		marked, err := marker.HasClass(ClassChecked)
		if err != nil {
			return err
		}
		if marked {
			state.Marked++
		}
		if marked != checked {
			state.Mismatched++
		}
	}
	return nil
}

func inspectMatrix(field Element, state *FieldState) error {
	rows, err := field.Elements(SelectorMatrixRow)
	if err != nil {
		return err
	}

	for _, row := range rows {
		var rs RowState
		rs.ID, _, err = row.Attribute(AttrRowID)
		if err != nil {
			return err
		}

		choices, err := row.Elements(SelectorRating)
		if err != nil {
			return err
		}
		rs.Options = len(choices)
		for _, c := range choices {
			v, _, err := c.Attribute(AttrRatingValue)
			if err != nil {
				return err
			}
			rs.Values = append(rs.Values, v)

			on, err := c.HasClass(ClassRateOn)
			if err != nil {
				return err
			}
			if on {
				rs.On++
			}
		}

		if rs.ID != "" {
			inputs, err := field.Elements(hiddenInputSelector(rs.ID))
			if err != nil {
				return err
			}
			if len(inputs) > 0 {
				rs.HasInput = true
				if rs.Value, err = inputs[0].Value(); err != nil {
					return err
				}
			}
		}

		state.Options += rs.Options
		state.Rows = append(state.Rows, rs)
	}
	return nil
}

// Verify checks the post-fill invariants of every container and returns
// all violations joined, each wrapping ErrInvariant.
func (s Snapshot) Verify() error {
	var errs []error
	fail := func(f FieldState, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		errs = append(errs, fmt.Errorf("%w: topic %s (%s): %s", ErrInvariant, f.Topic, f.Kind, msg))
	}

	for _, f := range s.Fields {
		switch f.Kind {
		case KindSingleChoice, KindMultiChoice:
			if f.Options == 0 {
				if f.Checked != 0 {
					fail(f, "%d checked without options", f.Checked)
				}
				continue
			}
			upper := 1
			if f.Kind == KindMultiChoice {
				upper = min(f.Options, MaxMultiSelect)
			}
			if f.Checked < 1 || f.Checked > upper {
				fail(f, "%d of %d options checked, want 1..%d", f.Checked, f.Options, upper)
			}
			if f.Mismatched > 0 {
				fail(f, "%d markers disagree with their controls", f.Mismatched)
			}
		case KindMatrix:
			for _, r := range f.Rows {
				if r.Options == 0 {
					continue
				}
				if r.On != 1 {
					fail(f, "row %q has %d options on, want 1", r.ID, r.On)
				}
				if r.HasInput && (r.Value == "" || !slices.Contains(r.Values, r.Value)) {
					fail(f, "row %q value %q is not one of %v", r.ID, r.Value, r.Values)
				}
			}
		}
	}

	return errors.Join(errs...)
}
