// Package services defines shared utilities consumed by the command, render,
// and surface packages.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, render job IDs, command domains,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper, and the mapping from those
//     markers to HTTP status codes used by the API.
//
// Use these helpers when wiring new components so operational behaviour (error
// classification, observability) stays uniform across the tool.
package services
