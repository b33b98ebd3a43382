// Package session owns one edit project per session and serializes every
// mutation against it.
//
// A Session applies router instructions in order under its own lock, resolves
// utterances into plans, and runs renders against a snapshot taken at submit
// time so later edits never reach an in-flight request. Render attempts are
// recorded in the job history and announced through notifications; failures
// of either are logged and never affect the session. Manager keeps independent
// sessions keyed by uuid for the HTTP and MCP surfaces.
package session
