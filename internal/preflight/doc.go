// Package preflight provides readiness checks for the render service, the
// intent resolver model, and the directories clipwright writes to.
//
// The CLI "clipwright doctor" command runs RunAll; the daemon logs the
// directory checks at start. Each remote check is gated by its credential:
// a missing optional key is reported, not failed.
package preflight
