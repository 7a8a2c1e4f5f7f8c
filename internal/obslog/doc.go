// Package obslog provides ambient run-progress logging for cmd/somc:
// pass start/end, module counts, cache hits — gated by the --trace
// CLI flag, never on by default.
//
// There is no ring buffer, no Chrome/NDJSON trace file, and no hang
// heartbeat: just a Level gate and a handful of Fprintf calls. A
// single-pass batch analyzer does not hang the way a long-lived
// compiler driver with a TUI can, so there is nothing here to diagnose
// a hung process with.
//
//	logger := obslog.New(os.Stderr, obslog.LevelPhase)
//	ctx = obslog.WithLogger(ctx, logger)
//	span := logger.Begin(obslog.ScopePass, "resolve")
//	...
//	span.End("3 modules")
package obslog
