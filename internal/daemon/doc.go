// Package daemon runs the long-lived clipwright server process.
//
// It holds an flock-based lock in the state directory so only one instance
// serves a given state dir, marks renders left in flight by a previous process
// as failed, and hosts the HTTP API over the session manager. Stopping the
// daemon cancels in-flight renders, shuts the listener down, and releases
// the lock.
package daemon
