// Package services defines shared utilities consumed by the pipeline stages
// and the transports that drive them.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and competition names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses (failed vs rejected).
//
// Use these helpers when wiring new stage logic so operational behaviour (error
// handling, observability) stays uniform across the pipeline.
package services
