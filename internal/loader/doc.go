// Package loader fetches question sets from the backend and normalizes them
// into a single flattened, globally-indexed playback list.
//
// Multi-set sessions are N sequential fetches concatenated in request order;
// the first failing fetch aborts the whole load and discards partial results.
// A load that succeeds with zero questions is not an error - callers receive
// an empty result and present their own empty state.
package loader
