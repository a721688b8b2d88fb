// Package narrator turns playback events into speech.
//
// The speech channel is exclusive: every speak call first cancels whatever is
// playing, so at most one utterance is ever audible and later requests win.
// Nothing is queued. A muted narrator and a narrator on a host without any
// text-to-speech capability are both silent no-ops - speech failures never
// propagate as errors.
package narrator
