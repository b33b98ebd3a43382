package preflight

import (
	"context"

	"clipwright/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := DirectoryChecks(cfg)
	results = append(results, CheckRender(ctx, cfg.GetRender()))
	results = append(results, CheckLLM(ctx, "Intent resolver", cfg.GetLLM()))
	return results
}

// DirectoryChecks verifies the state, log, and render directories.
func DirectoryChecks(cfg *config.Config) []Result {
	return []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Render directory", cfg.Paths.RenderDir),
	}
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}
