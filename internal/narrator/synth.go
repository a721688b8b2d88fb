package narrator

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"
)

// Synthesizer is the platform speech capability.
//
// Speak starts an utterance and returns immediately; playback continues in
// the background until it finishes or Cancel kills it. Implementations own
// the single speech channel: Speak must replace, not overlap, any utterance
// already playing.
type Synthesizer interface {
	Speak(text string, rate float64, voice string) error
	Cancel()
	Voices() []string
}

// baseWordsPerMinute is the speaking speed a rate multiplier of 1 maps to.
const baseWordsPerMinute = 175

// ExecSynthesizer speaks by running a host TTS command (macOS `say`, or
// espeak/espeak-ng elsewhere).
type ExecSynthesizer struct {
	mu      sync.Mutex
	command string
	cmd     *exec.Cmd // in-flight utterance, nil when idle
	voices  []string
	scanned bool
}

// Detect probes PATH for a usable TTS command. The second return is false
// when the host has no speech capability; callers degrade to silence.
func Detect() (*ExecSynthesizer, bool) {
	for _, name := range []string{"say", "espeak-ng", "espeak"} {
		if _, err := exec.LookPath(name); err == nil {
			return &ExecSynthesizer{command: name}, true
		}
	}
	return nil, false
}

// Speak kills any in-flight utterance and starts a new one.
func (e *ExecSynthesizer) Speak(text string, rate float64, voice string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelLocked()

	wpm := strconv.Itoa(int(rate * baseWordsPerMinute))

	var args []string
	switch e.command {
	case "say":
		args = []string{"-r", wpm}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		args = append(args, text)
	default: // espeak, espeak-ng
		args = []string{"-s", wpm}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		args = append(args, text)
	}

	cmd := exec.Command(e.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.command, err)
	}
	e.cmd = cmd

	// Reap the process when the utterance ends on its own.
	go func() {
		_ = cmd.Wait()
		e.mu.Lock()
		if e.cmd == cmd {
			e.cmd = nil
		}
		e.mu.Unlock()
	}()

	return nil
}

// Cancel kills the in-flight utterance, if any.
func (e *ExecSynthesizer) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
}

func (e *ExecSynthesizer) cancelLocked() {
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	e.cmd = nil
}

// Voices lists the names the host TTS command reports, scanned once.
func (e *ExecSynthesizer) Voices() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scanned {
		return e.voices
	}
	e.scanned = true

	var out []byte
	var err error
	switch e.command {
	case "say":
		out, err = exec.Command(e.command, "-v", "?").Output()
		if err == nil {
			e.voices = parseSayVoices(string(out))
		}
	default:
		out, err = exec.Command(e.command, "--voices").Output()
		if err == nil {
			e.voices = parseEspeakVoices(string(out))
		}
	}
	if err != nil {
		e.voices = nil
	}
	return e.voices
}
