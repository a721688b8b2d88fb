// Package player implements the question playback engine: a timed,
// voice-narrated, multi-set sequencing state machine.
//
// ARCHITECTURE:
//
// Single-Writer State:
// All playback state lives in one PlaybackState value owned by the
// Controller and mutated only under its lock, through named transition
// methods. Timer callbacks, UI control actions and the sequencer all funnel
// through the same lock, so steps within one question are strictly
// sequential: step N+1 never begins before step N's side effects (visible
// append, narration) complete.
//
// Timelines:
// A question's display sequence advances on a fixed budget - every
// timeLimit/len(sequence) - while an independent one-second countdown runs
// purely cosmetically (it never gates step advancement). Both are armed
// through an injected clock so tests drive them deterministically.
//
// Cancellation:
// Every run of a question owns a generation number. Pausing, navigating,
// reordering into a restart, or unmounting bumps the generation and stops
// the run's timers synchronously; a stale callback that still fires detects
// the mismatch and exits without side effects. Completion detection and the
// results handoff are guarded separately by a session epoch, which only a
// restart or teardown bumps, so pausing near the end cannot orphan them.
package player
