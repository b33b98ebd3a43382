// Package api serves the HTTP surface over edit sessions and render history.
//
// Routes are mounted on a chi router. Every request gets a short request id
// (echoed in X-Request-ID and carried in the context for log correlation),
// panics are recovered into 500 responses, and each request is logged with
// its status and duration. When a token is configured every route except
// /health requires "Authorization: Bearer <token>".
//
// # Routes
//
//	GET    /health
//	POST   /sessions
//	GET    /sessions
//	GET    /sessions/{id}
//	DELETE /sessions/{id}
//	POST   /sessions/{id}/commands      one instruction
//	POST   /sessions/{id}/plan          ordered instructions or instruction lines
//	POST   /sessions/{id}/utterances    free text through the resolver
//	POST   /sessions/{id}/render        202, render runs in the background
//	POST   /sessions/{id}/render/cancel
//	GET    /renders                     history, ?status= and ?session= filters
//	GET    /renders/{id}
//	GET    /logs                        ?since= &limit= &session=
//
// Errors are written as {"error": "...", "code": "..."} with the status derived
// from the error marker (validation 400, not found 404, conflict 409,
// configuration 503, external 502, timeout 504).
//
// DTOs use camelCase JSON tags. Timestamps are RFC3339 with milliseconds.
package api
