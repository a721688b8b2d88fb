package cli

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/igenius/soroban/internal/model"
	"github.com/igenius/soroban/internal/player"
)

// renderer is the line-oriented playback view: one line per event, written
// as the engine reports them. It also receives the results handoff and
// forwards it to the play command through a channel.
type renderer struct {
	mu  sync.Mutex
	out io.Writer

	results chan player.Results
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out, results: make(chan player.Results, 1)}
}

// Results delivers the end-of-session handoff payload.
func (r *renderer) Results() <-chan player.Results {
	return r.results
}

func (r *renderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *renderer) QuestionStarted(q model.Question) {
	r.printf("")
	r.printf("Question %d (set %d, #%d)", q.GlobalIndex+1, q.SetIndex+1, q.QuestionNumber)
}

func (r *renderer) StepRevealed(_ model.Question, _ int, item model.DisplayItem) {
	r.printf("  %s", item)
}

func (r *renderer) CountdownTick(int) {}

func (r *renderer) SetTransitionStarted(_ int, set model.QuestionSet) {
	r.printf("=== %s ===", set.Name)
}

func (r *renderer) AnnouncementMade(text string) {
	r.printf("* %s", text)
}

func (r *renderer) SessionCompleted() {
	r.printf("")
	r.printf("Session complete.")
}

// ShowResults hands the payload to the play command. The channel is
// buffered; a second handoff for the same session cannot happen within one
// play invocation, but dropping instead of blocking keeps a timer goroutine
// from wedging if it somehow did.
func (r *renderer) ShowResults(res player.Results) {
	select {
	case r.results <- res:
	default:
	}
}

// formatAnswer renders an answer without a trailing fraction when it is
// whole (division drills can produce fractional answers).
func formatAnswer(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

// printAnswers renders the answer sheet of a finished session.
func printAnswers(out io.Writer, res player.Results) {
	fmt.Fprintf(out, "\nAnswers (level %s, week %d)\n", res.Level, res.Week)
	for _, set := range res.Sets {
		fmt.Fprintf(out, "\n%s\n", set.Name)
		for _, q := range res.Questions {
			if q.SetID != set.ID {
				continue
			}
			fmt.Fprintf(out, "  %3d. %s = %s\n", q.QuestionNumber, q.FormattedQuestion, formatAnswer(q.Answer))
		}
	}
}
