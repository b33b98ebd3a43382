// Package mcpserver exposes one edit session as Model Context Protocol tools.
//
// Each of the six domains is a tool named "<domain>_agent" taking a command
// name and its parenthesized argument string; the router rejects commands the
// domain does not own. render_video blocks until the render ends,
// list_commands returns the catalog, and project_snapshot returns the request
// body the project would submit. Skips are reported as successful calls whose
// message tells the agent to continue with its next step.
package mcpserver
