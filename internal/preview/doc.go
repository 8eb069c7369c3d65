// Package preview schedules single-image mask previews behind a debounce.
//
// A Scheduler owns one in-flight computation at a time. Parameter changes
// restart a debounce window so slider drags cost one inference instead of
// dozens; switching images bypasses the window and computes immediately.
// Every accepted request carries a token, and results arriving for a token
// that is no longer current are discarded instead of overwriting a newer
// preview.
package preview
