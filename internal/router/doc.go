// Package router is the capability boundary between the intent resolver and the
// command handlers.
//
// A static table assigns every command to exactly one of six domains. Dispatch
// rejects a command that is not registered under the domain it was addressed to
// before any handler runs, then delegates to package command. The router holds
// no workflow state; ordering and retries belong to the caller.
package router
