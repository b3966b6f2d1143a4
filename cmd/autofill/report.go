package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/grez-lucas/survey-autofill/internal/survey"
)

var errPageErrors = errors.New("page reported errors")

func printReport(w io.Writer, name string, r survey.Report) {
	fmt.Fprintf(w, "%s: %d fields, %d filled (%s %d, %s %d, %s %d), %d rows, %d skipped, %d ignored, %d failures\n",
		name, r.Fields, r.FilledTotal(),
		survey.KindSingleChoice, r.Filled[survey.KindSingleChoice],
		survey.KindMultiChoice, r.Filled[survey.KindMultiChoice],
		survey.KindMatrix, r.Filled[survey.KindMatrix],
		r.Rows, r.Skipped, r.Ignored, len(r.Failures),
	)
	for _, err := range r.Failures {
		fmt.Fprintf(w, "  failure: %v\n", err)
	}
}

// seededRand returns a reproducible source for --seed.
func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
