package player

import "github.com/igenius/soroban/internal/model"

// Observer receives playback events for rendering.
//
// Callbacks run while the controller holds its lock; observers must render
// and return, never call back into the controller.
type Observer interface {
	// QuestionStarted fires when a question becomes current (playback start,
	// auto-advance, manual navigation).
	QuestionStarted(q model.Question)

	// StepRevealed fires for every display item, in sequence order, after it
	// has been appended to the visible lists.
	StepRevealed(q model.Question, step int, item model.DisplayItem)

	// CountdownTick fires each second while a question plays.
	CountdownTick(remaining int)

	// SetTransitionStarted fires when playback crosses into a different set.
	SetTransitionStarted(setIndex int, set model.QuestionSet)

	// AnnouncementMade mirrors every narrated announcement, muted or not.
	AnnouncementMade(text string)

	// SessionCompleted fires once when the last step of the last question
	// has settled.
	SessionCompleted()
}

// NopObserver is an Observer that ignores everything. Embed it to implement
// only the events a renderer cares about.
type NopObserver struct{}

func (NopObserver) QuestionStarted(model.Question)                      {}
func (NopObserver) StepRevealed(model.Question, int, model.DisplayItem) {}
func (NopObserver) CountdownTick(int)                                   {}
func (NopObserver) SetTransitionStarted(int, model.QuestionSet)         {}
func (NopObserver) AnnouncementMade(string)                             {}
func (NopObserver) SessionCompleted()                                   {}

// Results is the handoff payload for the results/answers view.
type Results struct {
	Level     string
	Week      int
	Sets      []model.QuestionSet
	Questions []model.Question
}

// ResultsSink receives the results handoff when a completed session
// auto-navigates (or when the user asks for the answers view directly).
type ResultsSink interface {
	ShowResults(r Results)
}
