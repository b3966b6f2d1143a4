package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/grez-lucas/survey-autofill/internal/config"
	"github.com/grez-lucas/survey-autofill/internal/survey"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func targets(n int) []config.Target {
	out := make([]config.Target, n)
	for i := range out {
		out[i] = config.Target{Name: fmt.Sprintf("t%d", i), URL: fmt.Sprintf("http://survey.test/%d", i), Runs: 1}
	}
	return out
}

func TestRun_BoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	fn := func(ctx context.Context, target config.Target) (survey.Report, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return survey.Report{Fields: 1, Filled: map[survey.Kind]int{survey.KindSingleChoice: 1}}, nil
	}

	results := Run(context.Background(), targets(8), 3, fn, zaptest.NewLogger(t))

	require.Len(t, results, 8)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("t%d", i), r.Target.Name)
		assert.NoError(t, r.Err)
		assert.Equal(t, 1, r.Report.FilledTotal())
		assert.Positive(t, r.Duration)
	}
	assert.NoError(t, Err(results))
}

func TestRun_FailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("navigation failed")
	fn := func(ctx context.Context, target config.Target) (survey.Report, error) {
		if target.Name == "t1" {
			return survey.Report{}, boom
		}
		return survey.Report{Fields: 2}, nil
	}

	results := Run(context.Background(), targets(4), 2, fn, nil)

	assert.ErrorIs(t, results[1].Err, boom)
	for _, i := range []int{0, 2, 3} {
		assert.NoError(t, results[i].Err)
		assert.Equal(t, 2, results[i].Report.Fields)
	}
	assert.ErrorIs(t, Err(results), boom)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	fn := func(ctx context.Context, target config.Target) (survey.Report, error) {
		calls.Add(1)
		return survey.Report{}, nil
	}

	results := Run(ctx, targets(3), 0, fn, nil)

	assert.Zero(t, calls.Load())
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
