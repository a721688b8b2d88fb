package narrator

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/igenius/soroban/internal/model"
)

// Rates is the fixed set of allowed speed multipliers.
var Rates = []float64{0.75, 1, 1.25, 1.5}

// DefaultRate is the normal speaking speed.
const DefaultRate = 1.0

// ValidRate reports whether r is one of the allowed speed multipliers.
func ValidRate(r float64) bool {
	for _, v := range Rates {
		if v == r {
			return true
		}
	}
	return false
}

// Narrator speaks short utterances for playback events.
//
// Implementations must enforce the at-most-one-utterance invariant: Announce
// and SpeakItem cancel any in-flight utterance before starting a new one.
// When muted, both are no-ops.
type Narrator interface {
	// Announce speaks free-form text (transitions, completion cues).
	Announce(text string)

	// SpeakItem speaks a display item: the digit's value, the operator's
	// word, or optionally "equals".
	SpeakItem(item model.DisplayItem)

	// Cancel silences any in-flight utterance.
	Cancel()

	SetMuted(muted bool)
	Muted() bool

	// SetRate changes the speed multiplier. The rate must be one of Rates.
	SetRate(rate float64) error
	Rate() float64
}

// Speech is the speaking Narrator, backed by a Synthesizer.
//
// Thread-safety: all methods are safe for concurrent use. The synthesizer's
// own Cancel/Speak pair is the serialization point for the speech channel.
type Speech struct {
	mu    sync.Mutex
	synth Synthesizer
	log   *slog.Logger

	muted       bool
	rate        float64
	speakEquals bool

	preferred   []string
	voice       string
	voiceChosen bool

	printer *message.Printer
}

// SpeechOption configures a Speech narrator.
type SpeechOption func(*Speech)

// WithSpeakEquals enables speaking "equals" for equals items. Off by default.
func WithSpeakEquals(on bool) SpeechOption {
	return func(s *Speech) {
		s.speakEquals = on
	}
}

// WithPreferredVoices overrides the default voice preference list.
func WithPreferredVoices(names []string) SpeechOption {
	return func(s *Speech) {
		if len(names) > 0 {
			s.preferred = names
		}
	}
}

// WithNarratorLogger sets the logger. Defaults to slog.Default().
func WithNarratorLogger(l *slog.Logger) SpeechOption {
	return func(s *Speech) {
		s.log = l
	}
}

// NewSpeech creates a narrator on the given synthesizer.
func NewSpeech(synth Synthesizer, opts ...SpeechOption) *Speech {
	s := &Speech{
		synth:     synth,
		log:       slog.Default(),
		rate:      DefaultRate,
		preferred: PreferredVoices,
		printer:   message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// System returns the best narrator for this host: a Speech narrator when a
// synthesizer is available, otherwise the silent Noop.
func System(opts ...SpeechOption) Narrator {
	synth, ok := Detect()
	if !ok {
		slog.Info("no speech synthesizer available, narration disabled")
		return Noop{}
	}
	return NewSpeech(synth, opts...)
}

// Announce speaks text, abandoning any in-flight utterance.
func (s *Speech) Announce(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muted || text == "" {
		return
	}
	s.speakLocked(text)
}

// SpeakItem speaks a display item. Equals items are silent unless the
// narrator was built with WithSpeakEquals(true).
func (s *Speech) SpeakItem(item model.DisplayItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.muted {
		return
	}

	text := s.itemText(item)
	if text == "" {
		return
	}
	s.speakLocked(text)
}

// itemText derives the spoken form of a display item.
func (s *Speech) itemText(item model.DisplayItem) string {
	switch item.Type {
	case model.ItemDigit:
		return s.printer.Sprintf("%d", item.Digit)
	case model.ItemOperator:
		return model.OperatorWord(item.Operator)
	case model.ItemEquals:
		if s.speakEquals {
			return "equals"
		}
	}
	return ""
}

// speakLocked cancels the current utterance and starts the new one.
func (s *Speech) speakLocked(text string) {
	if !s.voiceChosen {
		s.voice = SelectVoice(s.synth.Voices(), s.preferred)
		s.voiceChosen = true
		s.log.Debug("voice selected", "voice", s.voice)
	}

	s.synth.Cancel()
	if err := s.synth.Speak(text, s.rate, s.voice); err != nil {
		// Degrade silently: a failed utterance never surfaces as an error.
		s.log.Debug("utterance failed", "text", text, "error", err)
	}
}

// Cancel silences any in-flight utterance.
func (s *Speech) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synth.Cancel()
}

// SetMuted flips the mute flag. Muting does not cut off an utterance that is
// already playing; it stops new ones from starting.
func (s *Speech) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// Muted reports the mute flag.
func (s *Speech) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// SetRate sets the speed multiplier, rejecting values outside Rates.
func (s *Speech) SetRate(rate float64) error {
	if !ValidRate(rate) {
		return fmt.Errorf("invalid rate %v: must be one of %v", rate, Rates)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
	return nil
}

// Rate returns the current speed multiplier.
func (s *Speech) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Noop is the narrator used when speech is unavailable. Every method is a
// no-op except the mute/rate accessors, which behave normally so the rest of
// the player does not special-case missing speech.
type Noop struct{}

func (Noop) Announce(string)               {}
func (Noop) SpeakItem(model.DisplayItem)   {}
func (Noop) Cancel()                       {}
func (Noop) SetMuted(bool)                 {}
func (Noop) Muted() bool                   { return true }
func (Noop) SetRate(rate float64) error {
	if !ValidRate(rate) {
		return fmt.Errorf("invalid rate %v: must be one of %v", rate, Rates)
	}
	return nil
}
func (Noop) Rate() float64 { return DefaultRate }
