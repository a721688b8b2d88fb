package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igenius/soroban/internal/model"
)

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "error", PhaseError.String())
	assert.Equal(t, "no-questions", PhaseNoQuestions.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestStateCloneIsDeep(t *testing.T) {
	s := newPlaybackState()
	s.VisibleDigits = []model.DisplayItem{{Type: model.ItemDigit, Digit: 3}}
	s.VisibleOperators = []model.DisplayItem{{Type: model.ItemOperator, Operator: "+"}}
	s.CompletedSets[0] = true

	c := s.Clone()
	c.VisibleDigits[0].Digit = 99
	c.VisibleOperators[0].Operator = "/"
	c.CompletedSets[1] = true

	assert.Equal(t, int64(3), s.VisibleDigits[0].Digit)
	assert.Equal(t, "+", s.VisibleOperators[0].Operator)
	assert.False(t, s.CompletedSets[1])
}

func TestStateStepAdvancedRoutesByType(t *testing.T) {
	s := newPlaybackState()

	s.stepAdvanced(0, model.DisplayItem{Type: model.ItemDigit, Digit: 7})
	s.stepAdvanced(1, model.DisplayItem{Type: model.ItemOperator, Operator: "+"})
	s.stepAdvanced(2, model.DisplayItem{Type: model.ItemDigit, Digit: 2})
	s.stepAdvanced(3, model.DisplayItem{Type: model.ItemEquals})

	assert.Len(t, s.VisibleDigits, 2)
	assert.Len(t, s.VisibleOperators, 1)
	assert.Equal(t, 3, s.CurrentStep)
}

func TestStateTickClampsAtZero(t *testing.T) {
	s := newPlaybackState()
	s.TimeRemaining = 2

	require.True(t, s.tick())
	assert.Equal(t, 1, s.TimeRemaining)

	require.False(t, s.tick())
	assert.Equal(t, 0, s.TimeRemaining)

	// Already at zero: stays there, still reports stop.
	require.False(t, s.tick())
	assert.Equal(t, 0, s.TimeRemaining)
}

func TestStateQuestionStartedResetsPerQuestionFields(t *testing.T) {
	s := newPlaybackState()
	s.CurrentStep = 5
	s.VisibleDigits = []model.DisplayItem{{Type: model.ItemDigit, Digit: 1}}
	s.VisibleOperators = []model.DisplayItem{{Type: model.ItemOperator, Operator: "+"}}

	s.questionStarted(model.Question{TimeLimitSeconds: 6})

	assert.Zero(t, s.CurrentStep)
	assert.Empty(t, s.VisibleDigits)
	assert.Empty(t, s.VisibleOperators)
	assert.Equal(t, 6, s.TimeRemaining)
}

func TestStateQuestionStartedDefaultsTimeLimit(t *testing.T) {
	s := newPlaybackState()
	s.questionStarted(model.Question{})
	assert.Equal(t, model.DefaultTimeLimitSeconds, s.TimeRemaining)
}

func TestStateRestartedResetsEverythingButPhase(t *testing.T) {
	s := newPlaybackState()
	s.loadSucceeded(9 * time.Second)
	s.CurrentQuestionIndex = 4
	s.CurrentSetIndex = 1
	s.playing()
	s.stepAdvanced(2, model.DisplayItem{Type: model.ItemDigit, Digit: 8})
	s.setCompleted(0)
	s.sessionComplete()
	s.setTransition(1, "Starting question set 2")

	s.restarted(7 * time.Second)

	assert.Equal(t, PhaseReady, s.Phase)
	assert.Zero(t, s.CurrentQuestionIndex)
	assert.Zero(t, s.CurrentSetIndex)
	assert.False(t, s.IsPlaying)
	assert.False(t, s.IsAutoPlaying)
	assert.Equal(t, 7, s.TimeRemaining)
	assert.Empty(t, s.VisibleDigits)
	assert.Empty(t, s.CompletedSets)
	assert.False(t, s.SessionCompleted)
	assert.False(t, s.IsSetTransition)
	assert.Empty(t, s.AnnouncementText)
}
