// Package render turns a project snapshot into a render service request and
// drives the remote job to a terminal state.
//
// The request document mirrors the service edit schema: a timeline holding the
// background, the optional soundtrack, and one track per registry entry, plus
// the output settings. Encode and DecodeEdit convert between that document and
// the edit package types.
//
// Runner implements the submission state machine:
//
//	idle -> submitted -> queued -> fetching/rendering/saving -> done | failed
//
// with cancelled as an additional terminal state reached through context
// cancellation. Polling starts at the configured interval and doubles up to the
// configured maximum; the overall wait is bounded by a deadline. Transport
// errors end the attempt without retrying, and the artifact is written only once
// the service reports done.
package render
