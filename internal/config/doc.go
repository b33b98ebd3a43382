// Package config loads, normalizes, and validates clipwright configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHOTSTACK_KEY and SHOTSTACK_HOST. The Config type centralizes every knob the
// CLI, HTTP server, and tool server need, so render credentials, polling
// bounds, and artifact directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
