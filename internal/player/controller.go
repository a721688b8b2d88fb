package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igenius/soroban/internal/clock"
	"github.com/igenius/soroban/internal/loader"
	"github.com/igenius/soroban/internal/model"
	"github.com/igenius/soroban/internal/narrator"
)

// Fixed UI delays. The settle delays keep announcements perceptible before
// the state change they precede.
const (
	// autoStartDelay separates a successful load from auto-started playback.
	autoStartDelay = 500 * time.Millisecond

	// preSequenceDelay precedes a question's first countdown tick and step.
	preSequenceDelay = 500 * time.Millisecond

	// endOfQuestionSettle separates the final item from the advance (or the
	// stop, on the last question).
	endOfQuestionSettle = 500 * time.Millisecond

	// advanceAnnounceDelay is the announcement-to-advance handoff.
	advanceAnnounceDelay = 200 * time.Millisecond

	// transitionClearDelay bounds the set-transition banner pulse.
	transitionClearDelay = 500 * time.Millisecond

	// announcementClearDelay bounds the transition announcement text, which
	// lingers after the banner flag drops.
	announcementClearDelay = 3 * time.Second

	// completionDetectDelay separates the last step from sessionCompleted.
	completionDetectDelay = 2 * time.Second

	// resultsNavigateDelay separates sessionCompleted from the results
	// handoff, giving the user time to dismiss.
	resultsNavigateDelay = 3 * time.Second

	countdownInterval = time.Second
)

// Loader is the fetch contract the controller consumes. *loader.Client is
// the production implementation.
type Loader interface {
	LoadSession(ctx context.Context, level string, week int, setIDs []int64) (*loader.Result, error)
}

// Controller is the top-level playback state machine. It owns the flat
// question list, drives the sequencer and narrator, and exposes the
// imperative controls the UI binds to.
//
// Thread-safety: all exported methods are safe for concurrent use. Every
// mutation, including timer callbacks, happens under one lock.
type Controller struct {
	mu sync.Mutex

	clk  clock.Clock
	narr narrator.Narrator
	obs  Observer
	sink ResultsSink
	log  *slog.Logger

	token string // UUIDv7 session token for correlation
	level string
	week  int

	sets      []model.QuestionSet
	questions []model.Question
	bySet     map[int64][]model.Question // derived index, rebuilt on load/reorder

	state PlaybackState
	seq   *sequencer

	// gen is the playback run generation. Every (re)start of a question
	// bumps it; a timer callback from a superseded run sees the mismatch
	// and exits without side effects.
	gen uint64

	// epoch guards completion detection and the results handoff. Only
	// restart and teardown bump it, so pausing near the end of the session
	// does not orphan the completion chain.
	epoch uint64

	closed bool

	runTimers       []clock.Timer
	completionTimer    clock.Timer
	navTimer           clock.Timer
	clearTimer         clock.Timer
	announceClearTimer clock.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock substitutes the scheduling clock (tests).
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) {
		ctl.clk = c
	}
}

// WithObserver attaches a rendering observer.
func WithObserver(o Observer) Option {
	return func(ctl *Controller) {
		ctl.obs = o
	}
}

// WithResultsSink attaches the results handoff target.
func WithResultsSink(s ResultsSink) Option {
	return func(ctl *Controller) {
		ctl.sink = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) {
		ctl.log = l
	}
}

// New creates a Controller speaking through narr.
func New(narr narrator.Narrator, opts ...Option) *Controller {
	c := &Controller{
		clk:   clock.System(),
		narr:  narr,
		obs:   NopObserver{},
		log:   slog.Default(),
		token: uuid.Must(uuid.NewV7()).String(),
		state: newPlaybackState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionToken returns the UUIDv7 token identifying this playback session.
func (c *Controller) SessionToken() string {
	return c.token
}

// Load fetches the session and, on success, auto-starts playback after a
// short settle. A failed load leaves the controller in PhaseError until the
// caller retries with a fresh Load; an empty result parks it in
// PhaseNoQuestions. If the controller was closed while the fetch was in
// flight, the late result is discarded.
func (c *Controller) Load(ctx context.Context, ld Loader, level string, week int, setIDs []int64) error {
	res, err := ld.LoadSession(ctx, level, week, setIDs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	// A reload supersedes whatever was running.
	c.cancelRunLocked()
	c.epoch++
	c.stopSessionTimersLocked()
	c.state = newPlaybackState()

	c.level = level
	c.week = week

	if err != nil {
		c.state.loadFailed(err.Error())
		c.log.Error("load failed", "session", c.token, "error", err)
		return err
	}
	if len(res.Questions) == 0 {
		c.state.loadedEmpty()
		c.log.Info("load returned no questions", "session", c.token)
		return nil
	}

	c.sets = res.Sets
	c.questions = res.Questions
	c.bySet = model.GroupBySet(res.Questions)
	c.state.loadSucceeded(res.Questions[0].EffectiveTimeLimit())

	c.log.Info("session ready",
		"session", c.token,
		"level", level,
		"week", week,
		"sets", len(c.sets),
		"questions", len(c.questions),
	)

	c.afterLocked(autoStartDelay, c.playLocked)
	return nil
}

// State returns a snapshot of the playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Sets returns a copy of the question sets in current playback order.
func (c *Controller) Sets() []model.QuestionSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.QuestionSet(nil), c.sets...)
}

// Questions returns a copy of the flat question list.
func (c *Controller) Questions() []model.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Question(nil), c.questions...)
}

// Current returns the current question, if any.
func (c *Controller) Current() (model.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PhaseReady || len(c.questions) == 0 {
		return model.Question{}, false
	}
	return c.questions[c.state.CurrentQuestionIndex], true
}

// TogglePlay flips between playing and paused. Pausing synchronously
// cancels all sequencer timers; resuming restarts the current question from
// its first item.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady {
		return
	}
	if c.state.IsPlaying {
		c.pauseLocked()
		return
	}
	c.playLocked()
}

// Next advances to the next question and resumes playback, even when the
// session was paused. A no-op at the last index: the completion path owns
// the end of the session. Manual advance skips the announcement step
// auto-advance uses.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady || c.state.CurrentQuestionIndex >= len(c.questions)-1 {
		return
	}

	c.state.CurrentQuestionIndex++
	c.state.playing()
	c.startQuestionLocked()
}

// Previous steps back one question. A no-op at index zero. Going back
// always pauses playback.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady || c.state.CurrentQuestionIndex == 0 {
		return
	}

	c.pauseLocked()
	c.state.CurrentQuestionIndex--
	c.repositionLocked()
}

// JumpToQuestion pauses and repositions to the given flat index.
func (c *Controller) JumpToQuestion(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady || index < 0 || index >= len(c.questions) {
		return
	}

	c.pauseLocked()
	c.state.CurrentQuestionIndex = index
	c.repositionLocked()
}

// JumpToSet pauses and repositions to the first question of the given set.
func (c *Controller) JumpToSet(setIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady || setIndex < 0 || setIndex >= len(c.sets) {
		return
	}

	for i, q := range c.questions {
		if q.SetIndex == setIndex {
			c.pauseLocked()
			c.state.CurrentQuestionIndex = i
			c.repositionLocked()
			return
		}
	}
}

// Restart resets all playback state to initial values and cancels every
// pending timer. It never refetches.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady {
		return
	}

	c.cancelRunLocked()
	c.epoch++
	c.stopSessionTimersLocked()
	c.narr.Cancel()

	c.state.restarted(c.questions[0].EffectiveTimeLimit())
	c.log.Debug("session restarted", "session", c.token)
}

// ReorderSets applies a new playback ordering, given as a permutation of
// the current set IDs. Every question's index annotations are recomputed;
// the current question keeps playing and is re-pointed by identity.
// CompletedSets is preserved as-is.
func (c *Controller) ReorderSets(ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady {
		return fmt.Errorf("no session loaded")
	}
	if len(ids) != len(c.sets) {
		return fmt.Errorf("reorder needs %d set ids, got %d", len(c.sets), len(ids))
	}

	byID := make(map[int64]model.QuestionSet, len(c.sets))
	for _, s := range c.sets {
		byID[s.ID] = s
	}

	newSets := make([]model.QuestionSet, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return fmt.Errorf("unknown set id %d", id)
		}
		delete(byID, id)
		newSets = append(newSets, s)
	}

	currentID := c.questions[c.state.CurrentQuestionIndex].ID

	c.sets = newSets
	c.questions = model.Flatten(newSets, c.bySet)

	// Re-point the current question by stable identity, preserving playback
	// position across the reorder.
	for i, q := range c.questions {
		if q.ID == currentID {
			c.state.CurrentQuestionIndex = i
			c.state.CurrentSetIndex = q.SetIndex
			break
		}
	}

	c.log.Debug("sets reordered", "session", c.token, "order", ids)
	return nil
}

// DismissCompletion hides the completion overlay and cancels the pending
// auto-navigation, leaving the session reviewable.
func (c *Controller) DismissCompletion() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SessionCompleted = false
	if c.navTimer != nil {
		c.navTimer.Stop()
		c.navTimer = nil
	}
}

// Results builds the results handoff payload on demand (the "view all
// answers" action).
func (c *Controller) Results() Results {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultsLocked()
}

// SetMuted flips narration on or off.
func (c *Controller) SetMuted(muted bool) {
	c.narr.SetMuted(muted)
}

// Muted reports the narration mute flag.
func (c *Controller) Muted() bool {
	return c.narr.Muted()
}

// SetRate selects a narration speed from the fixed allowed set.
func (c *Controller) SetRate(rate float64) error {
	return c.narr.SetRate(rate)
}

// Close tears the controller down: all timers cancelled, speech silenced.
// A load still in flight has its result discarded on arrival.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.cancelRunLocked()
	c.epoch++
	c.stopSessionTimersLocked()
	c.narr.Cancel()
}

// --- internals (all called with c.mu held) ---

// afterLocked schedules a run-generation-guarded callback. The callback
// runs under the controller lock; if the run was superseded in the meantime
// it is a no-op.
func (c *Controller) afterLocked(d time.Duration, f func()) clock.Timer {
	gen := c.gen
	t := c.clk.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			return
		}
		f()
	})
	c.runTimers = append(c.runTimers, t)
	return t
}

// epochAfter schedules a session-epoch-guarded callback (completion chain).
func (c *Controller) epochAfter(d time.Duration, f func()) clock.Timer {
	epoch := c.epoch
	return c.clk.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if epoch != c.epoch {
			return
		}
		f()
	})
}

// cancelRunLocked supersedes the current run: the generation is bumped and
// every timer the run owns is stopped synchronously.
func (c *Controller) cancelRunLocked() {
	c.gen++
	for _, t := range c.runTimers {
		t.Stop()
	}
	c.runTimers = nil
	if c.seq != nil {
		c.seq.cancel()
		c.seq = nil
	}
}

func (c *Controller) stopSessionTimersLocked() {
	c.stopCompletionLocked()
	if c.navTimer != nil {
		c.navTimer.Stop()
		c.navTimer = nil
	}
	c.stopBannerTimersLocked()
}

func (c *Controller) stopCompletionLocked() {
	if c.completionTimer != nil {
		c.completionTimer.Stop()
		c.completionTimer = nil
	}
}

func (c *Controller) stopBannerTimersLocked() {
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	if c.announceClearTimer != nil {
		c.announceClearTimer.Stop()
		c.announceClearTimer = nil
	}
}

func (c *Controller) playLocked() {
	if c.state.Phase != PhaseReady || len(c.questions) == 0 || c.state.IsPlaying {
		return
	}
	c.state.playing()
	c.startQuestionLocked()
}

func (c *Controller) pauseLocked() {
	c.cancelRunLocked()
	c.state.paused()
}

// repositionLocked makes the question at CurrentQuestionIndex current
// without starting its timeline (used by paused navigation).
func (c *Controller) repositionLocked() {
	c.cancelRunLocked()
	c.enterQuestionLocked()
}

// enterQuestionLocked makes the question at CurrentQuestionIndex the live
// one: per-question state reset, observer notified, set-transition pulse
// raised when the position crossed into a new set. Leaving the last
// question drops any pending completion detection; the session completes
// only while still positioned there.
func (c *Controller) enterQuestionLocked() model.Question {
	c.stopCompletionLocked()

	q := c.questions[c.state.CurrentQuestionIndex]
	c.state.questionStarted(q)
	c.obs.QuestionStarted(q)

	if len(c.sets) > 1 && q.SetIndex != c.state.CurrentSetIndex {
		text := fmt.Sprintf("Starting question set %d", q.SetIndex+1)
		c.state.setTransition(q.SetIndex, text)
		c.obs.SetTransitionStarted(q.SetIndex, c.sets[q.SetIndex])
		c.announceLocked(text)

		// The banner flag is a short pulse; the announcement text
		// stays on screen longer.
		c.stopBannerTimersLocked()
		c.clearTimer = c.epochAfter(transitionClearDelay, func() {
			c.state.transitionCleared()
		})
		c.announceClearTimer = c.epochAfter(announcementClearDelay, func() {
			c.state.announcementCleared()
		})
	} else {
		c.state.CurrentSetIndex = q.SetIndex
	}
	return q
}

// startQuestionLocked begins a fresh run of the current question: previous
// timers invalidated, per-question state reset, set-transition pulse raised
// when playback crossed into a new set, sequencer armed.
func (c *Controller) startQuestionLocked() {
	c.cancelRunLocked()

	q := c.enterQuestionLocked()

	c.log.Debug("question started",
		"session", c.token,
		"question", q.GlobalIndex+1,
		"set", q.SetIndex+1,
		"items", len(q.DisplaySequence),
	)

	c.seq = newSequencer(q, c.afterLocked,
		func(step int, item model.DisplayItem) {
			c.state.stepAdvanced(step, item)
			c.obs.StepRevealed(q, step, item)
			c.narr.SpeakItem(item)
		},
		func() bool {
			cont := c.state.tick()
			c.obs.CountdownTick(c.state.TimeRemaining)
			return cont
		},
		c.questionFinishedLocked,
	)
	c.seq.start()
}

// questionFinishedLocked runs when the final item of the current question
// has been processed. The current question is re-derived from state rather
// than captured, so a reorder mid-question resolves against the new order.
func (c *Controller) questionFinishedLocked() {
	c.state.sequenceDone()
	q := c.questions[c.state.CurrentQuestionIndex]

	// Last question of its set: record the set as completed.
	if q.QuestionInSetIndex == len(c.bySet[q.SetID])-1 {
		c.state.setCompleted(q.SetIndex)
	}

	if q.GlobalIndex == len(c.questions)-1 {
		// End of session: stop after the settle, then run the completion
		// chain on the session epoch.
		c.afterLocked(endOfQuestionSettle, func() {
			c.state.paused()
		})
		c.completionTimer = c.epochAfter(completionDetectDelay, c.completeSessionLocked)
		return
	}

	c.afterLocked(endOfQuestionSettle, c.autoAdvanceLocked)
}

// autoAdvanceLocked announces the upcoming question (a set-transition cue
// when it lives in a different set), waits out the handoff, then advances.
func (c *Controller) autoAdvanceLocked() {
	next := c.state.CurrentQuestionIndex + 1
	if next >= len(c.questions) {
		return
	}

	if c.state.IsAutoPlaying {
		text := "Next."
		cur := c.questions[c.state.CurrentQuestionIndex]
		if len(c.sets) > 1 && c.questions[next].SetIndex != cur.SetIndex {
			text = fmt.Sprintf("Moving to %s", c.sets[c.questions[next].SetIndex].Name)
		}
		c.announceLocked(text)
	}

	c.afterLocked(advanceAnnounceDelay, func() {
		c.state.CurrentQuestionIndex = next
		c.state.playing()
		c.startQuestionLocked()
	})
}

func (c *Controller) completeSessionLocked() {
	// A reorder can re-point the current question away from the end of
	// the flat order while detection is pending.
	if c.state.CurrentQuestionIndex != len(c.questions)-1 {
		return
	}

	c.state.sessionComplete()
	c.announceLocked("All questions completed. Well done!")
	c.obs.SessionCompleted()

	c.log.Info("session completed",
		"session", c.token,
		"questions", len(c.questions),
		"sets", len(c.sets),
	)

	epoch := c.epoch
	c.navTimer = c.clk.AfterFunc(resultsNavigateDelay, func() {
		c.mu.Lock()
		if epoch != c.epoch || !c.state.SessionCompleted || c.sink == nil {
			c.mu.Unlock()
			return
		}
		r := c.resultsLocked()
		sink := c.sink
		c.mu.Unlock()

		// The handoff runs outside the lock: sinks may re-enter the
		// controller (e.g. to snapshot state).
		sink.ShowResults(r)
	})
}

// announceLocked narrates an announcement and mirrors it to the observer.
// The narrator enforces the mute flag; the observer always sees the text.
func (c *Controller) announceLocked(text string) {
	c.narr.Announce(text)
	c.obs.AnnouncementMade(text)
}

func (c *Controller) resultsLocked() Results {
	return Results{
		Level:     c.level,
		Week:      c.week,
		Sets:      append([]model.QuestionSet(nil), c.sets...),
		Questions: append([]model.Question(nil), c.questions...),
	}
}
