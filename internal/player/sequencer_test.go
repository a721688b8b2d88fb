package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igenius/soroban/internal/model"
	"github.com/igenius/soroban/internal/testutil"
)

func seqQuestion(limitSeconds int, items ...model.DisplayItem) model.Question {
	return model.Question{TimeLimitSeconds: limitSeconds, DisplaySequence: items}
}

func TestSequencerPeriodSplitsTimeLimitEvenly(t *testing.T) {
	q := seqQuestion(9,
		model.DisplayItem{Type: model.ItemDigit, Digit: 3},
		model.DisplayItem{Type: model.ItemOperator, Operator: "+"},
		model.DisplayItem{Type: model.ItemDigit, Digit: 4},
	)
	s := newSequencer(q, nil, nil, nil, nil)
	assert.Equal(t, 3*time.Second, s.period)
}

func TestSequencerEmptySequenceNeverStarts(t *testing.T) {
	clk := testutil.NewFakeClock()
	s := newSequencer(seqQuestion(10), clk.AfterFunc,
		func(int, model.DisplayItem) { t.Fatal("unexpected step") },
		func() bool { t.Fatal("unexpected tick"); return false },
		func() { t.Fatal("unexpected done") },
	)
	s.start()

	assert.Zero(t, clk.Pending())
	clk.Advance(time.Minute)
}

func TestSequencerFiresItemsAtFixedIntervals(t *testing.T) {
	clk := testutil.NewFakeClock()
	q := seqQuestion(9,
		model.DisplayItem{Type: model.ItemDigit, Digit: 3},
		model.DisplayItem{Type: model.ItemOperator, Operator: "+"},
		model.DisplayItem{Type: model.ItemDigit, Digit: 4},
	)

	var steps []int
	done := false
	s := newSequencer(q, clk.AfterFunc,
		func(step int, item model.DisplayItem) { steps = append(steps, step) },
		func() bool { return true },
		func() { done = true },
	)
	s.start()

	// Pre-sequence settle: nothing revealed yet.
	clk.Advance(preSequenceDelay)
	assert.Empty(t, steps)

	// One item per period.
	clk.Advance(3*time.Second - time.Millisecond)
	assert.Empty(t, steps)
	clk.Advance(time.Millisecond)
	assert.Equal(t, []int{0}, steps)

	clk.Advance(3 * time.Second)
	assert.Equal(t, []int{0, 1}, steps)
	assert.False(t, done)

	clk.Advance(3 * time.Second)
	assert.Equal(t, []int{0, 1, 2}, steps)
	assert.True(t, done)
}

func TestSequencerTicksEverySecondUntilStopped(t *testing.T) {
	clk := testutil.NewFakeClock()
	q := seqQuestion(4,
		model.DisplayItem{Type: model.ItemDigit, Digit: 1},
		model.DisplayItem{Type: model.ItemDigit, Digit: 2},
	)

	ticks := 0
	s := newSequencer(q, clk.AfterFunc,
		func(int, model.DisplayItem) {},
		func() bool {
			ticks++
			return ticks < 3 // countdown owner says stop after three
		},
		func() {},
	)
	s.start()

	clk.Advance(preSequenceDelay)
	clk.Advance(time.Second)
	assert.Equal(t, 1, ticks)
	clk.Advance(time.Second)
	assert.Equal(t, 2, ticks)

	// Third tick returns false: no re-arm.
	clk.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
}

func TestSequencerStopsCountdownWithFinalItem(t *testing.T) {
	clk := testutil.NewFakeClock()
	q := seqQuestion(2, model.DisplayItem{Type: model.ItemDigit, Digit: 5})

	ticks := 0
	done := false
	s := newSequencer(q, clk.AfterFunc,
		func(int, model.DisplayItem) {},
		func() bool { ticks++; return true },
		func() { done = true },
	)
	s.start()

	// Single item, 2s limit: item due 2s after the settle, countdown ticks
	// once before it.
	clk.Advance(preSequenceDelay + 2*time.Second)
	require.True(t, done)
	ticksAtDone := ticks

	clk.Advance(time.Minute)
	assert.Equal(t, ticksAtDone, ticks)
}

func TestSequencerCancelStopsAllTimers(t *testing.T) {
	clk := testutil.NewFakeClock()
	q := seqQuestion(6,
		model.DisplayItem{Type: model.ItemDigit, Digit: 1},
		model.DisplayItem{Type: model.ItemDigit, Digit: 2},
	)

	fired := false
	s := newSequencer(q, clk.AfterFunc,
		func(int, model.DisplayItem) { fired = true },
		func() bool { fired = true; return true },
		func() { fired = true },
	)
	s.start()
	s.cancel()

	clk.Advance(time.Minute)
	assert.False(t, fired)
	assert.Zero(t, clk.Pending())
}
