// Package survey fills survey question widgets with random valid answers.
//
// The fill procedure works against the Element abstraction so it can run
// over a live browser page or a headless parsed document alike.
package survey

import "fmt"

// Kind is the question type discriminator carried in a container's type
// attribute.
type Kind string

const (
	KindSingleChoice Kind = "3"
	KindMultiChoice  Kind = "4"
	KindMatrix       Kind = "6"
)

// Known reports whether the fill procedure handles this kind.
func (k Kind) Known() bool {
	switch k {
	case KindSingleChoice, KindMultiChoice, KindMatrix:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindSingleChoice:
		return "single-choice"
	case KindMultiChoice:
		return "multi-choice"
	case KindMatrix:
		return "matrix"
	default:
		return fmt.Sprintf("unknown(%q)", string(k))
	}
}

// Report summarizes one fill pass.
type Report struct {
	// Fields is the number of question containers discovered.
	Fields int
	// Filled counts containers that received an answer, per kind.
	Filled map[Kind]int
	// Rows counts matrix rows that received an answer.
	Rows int
	// Skipped counts recognised containers with no eligible options.
	Skipped int
	// Ignored counts containers with an unrecognised type.
	Ignored int
	// Failures holds host errors from individual element operations. The
	// pass continues past them.
	Failures []error
}

// FilledTotal returns the number of containers that received an answer.
func (r Report) FilledTotal() int {
	total := 0
	for _, n := range r.Filled {
		total += n
	}
	return total
}

// Merge adds the counts of other into r.
func (r *Report) Merge(other Report) {
	if r.Filled == nil {
		r.Filled = make(map[Kind]int)
	}
	r.Fields += other.Fields
	for k, n := range other.Filled {
		r.Filled[k] += n
	}
	r.Rows += other.Rows
	r.Skipped += other.Skipped
	r.Ignored += other.Ignored
	r.Failures = append(r.Failures, other.Failures...)
}
