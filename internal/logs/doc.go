// Package logs reads daemon log events for the CLI.
//
// StreamClient pages through the daemon's GET /logs cursor and can follow it
// until the caller cancels. LastLines reads the tail of a log file when the
// daemon API is unreachable.
package logs
