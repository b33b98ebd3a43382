// Package main hosts the clipwright CLI entrypoint and command graph.
//
// The Cobra command tree covers one-shot instruction files (apply), an
// interactive editing session, the command catalog, render history, the
// long-running HTTP daemon (serve, start, stop, status), the stdio MCP tool
// server, and configuration scaffolding. Editing and rendering logic lives in
// the internal packages; commands here only wire config, logging, and output.
package main
