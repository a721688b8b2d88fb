package narrator

import (
	"fmt"
	"sync"

	"github.com/igenius/soroban/internal/model"
)

// Recorder is a Narrator that records what would have been spoken, for
// deterministic tests. It honors the mute flag exactly as Speech does:
// muted calls record nothing.
type Recorder struct {
	mu          sync.Mutex
	muted       bool
	rate        float64
	speakEquals bool
	utterances  []string
	cancels     int
}

// NewRecorder creates an unmuted recorder at the default rate.
func NewRecorder() *Recorder {
	return &Recorder{rate: DefaultRate}
}

// NewRecorderSpeakingEquals creates a recorder that also records "equals".
func NewRecorderSpeakingEquals() *Recorder {
	return &Recorder{rate: DefaultRate, speakEquals: true}
}

func (r *Recorder) Announce(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.muted || text == "" {
		return
	}
	r.utterances = append(r.utterances, text)
}

func (r *Recorder) SpeakItem(item model.DisplayItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.muted {
		return
	}

	switch item.Type {
	case model.ItemDigit:
		r.utterances = append(r.utterances, fmt.Sprintf("%d", item.Digit))
	case model.ItemOperator:
		r.utterances = append(r.utterances, model.OperatorWord(item.Operator))
	case model.ItemEquals:
		if r.speakEquals {
			r.utterances = append(r.utterances, "equals")
		}
	}
}

func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels++
}

func (r *Recorder) SetMuted(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
}

func (r *Recorder) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted
}

func (r *Recorder) SetRate(rate float64) error {
	if !ValidRate(rate) {
		return fmt.Errorf("invalid rate %v: must be one of %v", rate, Rates)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rate = rate
	return nil
}

func (r *Recorder) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate
}

// Utterances returns everything recorded so far, in order.
func (r *Recorder) Utterances() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.utterances))
	copy(out, r.utterances)
	return out
}

// Cancels returns how many times Cancel was called.
func (r *Recorder) Cancels() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancels
}
