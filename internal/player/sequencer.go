package player

import (
	"time"

	"github.com/igenius/soroban/internal/clock"
	"github.com/igenius/soroban/internal/model"
)

// sequencer walks one question's display sequence on a fixed time budget:
// one item every timeLimit/len(sequence), plus an independent one-second
// cosmetic countdown.
//
// The sequencer is passive. Its timers are armed through the scheduler the
// controller injects, which already serializes callbacks under the
// controller lock and drops them when the run has been superseded, so the
// sequencer itself carries no locking and no generation bookkeeping. It is
// built fresh for every run; there is no reset.
type sequencer struct {
	after  func(d time.Duration, f func()) clock.Timer
	seq    []model.DisplayItem
	period time.Duration
	step   int

	stepTimer clock.Timer
	tickTimer clock.Timer

	onStep func(step int, item model.DisplayItem)
	onTick func() bool // false stops the countdown
	onDone func()
}

func newSequencer(
	q model.Question,
	after func(d time.Duration, f func()) clock.Timer,
	onStep func(step int, item model.DisplayItem),
	onTick func() bool,
	onDone func(),
) *sequencer {
	s := &sequencer{
		after:  after,
		seq:    q.DisplaySequence,
		onStep: onStep,
		onTick: onTick,
		onDone: onDone,
	}
	if n := len(s.seq); n > 0 {
		// Equal time-slicing per item, regardless of item type.
		s.period = q.EffectiveTimeLimit() / time.Duration(n)
	}
	return s
}

// start arms the pre-sequence settle delay; after it the countdown begins
// and the first item is due one period later. An empty sequence never
// starts.
func (s *sequencer) start() {
	if len(s.seq) == 0 {
		return
	}
	s.stepTimer = s.after(preSequenceDelay, func() {
		s.armTick()
		s.armStep()
	})
}

func (s *sequencer) armStep() {
	s.stepTimer = s.after(s.period, s.fire)
}

// fire processes one item: report the step, then either re-arm or finish.
// The countdown is stopped the moment the final item is processed.
func (s *sequencer) fire() {
	item := s.seq[s.step]
	s.onStep(s.step, item)
	s.step++

	if s.step < len(s.seq) {
		s.armStep()
		return
	}

	s.stopTick()
	s.onDone()
}

func (s *sequencer) armTick() {
	s.tickTimer = s.after(countdownInterval, func() {
		if s.onTick() {
			s.armTick()
		}
	})
}

func (s *sequencer) stopTick() {
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

// cancel invalidates all pending timers for this run.
func (s *sequencer) cancel() {
	if s.stepTimer != nil {
		s.stepTimer.Stop()
		s.stepTimer = nil
	}
	s.stopTick()
}
