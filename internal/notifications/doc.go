// Package notifications announces finished runs via ntfy.
//
// NewService returns a no-op implementation when no topic is configured, so
// the processor can notify unconditionally. Delivery failures are returned to
// the caller, which logs them; a failed notification never fails a run.
package notifications
