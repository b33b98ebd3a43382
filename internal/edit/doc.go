// Package edit holds the in-memory video edit project: asset variants, timed
// clips, and the three insertion-ordered clip registries plus timeline and
// output settings.
//
// A Project is not safe for concurrent use. Callers own one Project per edit
// session and apply mutations from a single goroutine (see package session).
// Snapshot returns a deep copy that can be read while the original keeps
// changing.
package edit
