package player

import (
	"time"

	"github.com/igenius/soroban/internal/model"
)

// Phase is the coarse lifecycle of a playback session.
type Phase int

const (
	// PhaseLoading is the initial state while sets are being fetched.
	PhaseLoading Phase = iota
	// PhaseError is terminal for a load attempt; retry means reloading.
	PhaseError
	// PhaseNoQuestions is the distinct empty state: a valid load with
	// zero questions. Not an error.
	PhaseNoQuestions
	// PhaseReady means questions are loaded and playback can run.
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseNoQuestions:
		return "no-questions"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// PlaybackState is the transient session state. It is owned by the
// Controller and mutated only through the transition methods below, so the
// invariants (visible lists append-only in sequence order, CompletedSets
// monotonic, one current question) are enforced in one place.
type PlaybackState struct {
	Phase      Phase
	ErrMessage string

	CurrentQuestionIndex int
	CurrentSetIndex      int
	CurrentStep          int
	IsPlaying            bool
	IsAutoPlaying        bool
	TimeRemaining        int

	VisibleDigits    []model.DisplayItem
	VisibleOperators []model.DisplayItem

	CompletedSets    map[int]bool
	SessionCompleted bool

	IsSetTransition  bool
	AnnouncementText string
}

func newPlaybackState() PlaybackState {
	return PlaybackState{
		Phase:         PhaseLoading,
		CompletedSets: make(map[int]bool),
	}
}

// Clone returns a deep copy safe to hand outside the lock.
func (s *PlaybackState) Clone() PlaybackState {
	out := *s
	out.VisibleDigits = append([]model.DisplayItem(nil), s.VisibleDigits...)
	out.VisibleOperators = append([]model.DisplayItem(nil), s.VisibleOperators...)
	out.CompletedSets = make(map[int]bool, len(s.CompletedSets))
	for k, v := range s.CompletedSets {
		out.CompletedSets[k] = v
	}
	return out
}

func (s *PlaybackState) loadFailed(msg string) {
	s.Phase = PhaseError
	s.ErrMessage = msg
}

func (s *PlaybackState) loadedEmpty() {
	s.Phase = PhaseNoQuestions
}

func (s *PlaybackState) loadSucceeded(firstLimit time.Duration) {
	s.Phase = PhaseReady
	s.TimeRemaining = int(firstLimit / time.Second)
}

// questionStarted resets the per-question fields for a fresh run.
func (s *PlaybackState) questionStarted(q model.Question) {
	s.CurrentStep = 0
	s.VisibleDigits = nil
	s.VisibleOperators = nil
	s.TimeRemaining = int(q.EffectiveTimeLimit() / time.Second)
}

// stepAdvanced records one revealed item. Items are appended strictly in
// sequence order and never removed until the next question starts.
func (s *PlaybackState) stepAdvanced(step int, item model.DisplayItem) {
	s.CurrentStep = step
	switch item.Type {
	case model.ItemDigit:
		s.VisibleDigits = append(s.VisibleDigits, item)
	case model.ItemOperator:
		s.VisibleOperators = append(s.VisibleOperators, item)
	}
}

// tick decrements the cosmetic countdown, clamping at zero. It reports
// whether the countdown should keep running.
func (s *PlaybackState) tick() bool {
	if s.TimeRemaining <= 1 {
		s.TimeRemaining = 0
		return false
	}
	s.TimeRemaining--
	return true
}

// sequenceDone zeroes the countdown: the final item and the final tick can
// land on the same instant, and the item wins, so the display would
// otherwise rest at one second.
func (s *PlaybackState) sequenceDone() {
	s.TimeRemaining = 0
}

func (s *PlaybackState) playing() {
	s.IsPlaying = true
	s.IsAutoPlaying = true
}

func (s *PlaybackState) paused() {
	s.IsPlaying = false
	s.IsAutoPlaying = false
}

func (s *PlaybackState) setTransition(setIndex int, text string) {
	s.CurrentSetIndex = setIndex
	s.IsSetTransition = true
	s.AnnouncementText = text
}

// transitionCleared drops the banner flag only. The announcement text
// outlives the pulse and clears on its own schedule.
func (s *PlaybackState) transitionCleared() {
	s.IsSetTransition = false
}

func (s *PlaybackState) announcementCleared() {
	s.AnnouncementText = ""
}

// setCompleted marks a set as played out. Entries are only ever added;
// restart is the sole reset.
func (s *PlaybackState) setCompleted(setIndex int) {
	s.CompletedSets[setIndex] = true
}

func (s *PlaybackState) sessionComplete() {
	s.SessionCompleted = true
}

// restarted resets every transient field to its initial value. Phase is
// untouched: restart never refetches.
func (s *PlaybackState) restarted(firstLimit time.Duration) {
	s.CurrentQuestionIndex = 0
	s.CurrentSetIndex = 0
	s.CurrentStep = 0
	s.IsPlaying = false
	s.IsAutoPlaying = false
	s.TimeRemaining = int(firstLimit / time.Second)
	s.VisibleDigits = nil
	s.VisibleOperators = nil
	s.CompletedSets = make(map[int]bool)
	s.SessionCompleted = false
	s.IsSetTransition = false
	s.AnnouncementText = ""
}
