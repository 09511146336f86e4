// Package passcodes rewrites the flat computer-display passcode manifest that
// ships with a scramble bundle.
//
// Each manifest line is matched against the scramble set grammar, paired with
// the round it belongs to, and re-emitted in schedule order with a header
// line whenever the local date changes. Lines that do not match are dropped
// and counted; entries with no matching round fall back to the injected clock.
package passcodes
