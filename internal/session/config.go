package session

import (
	"log/slog"

	"clipwright/internal/config"
	"clipwright/internal/jobs"
	"clipwright/internal/notifications"
	"clipwright/internal/resolver"
)

// DepsFromConfig wires the configured render service, resolver, and
// notifier. store may be nil to skip render history.
func DepsFromConfig(cfg *config.Config, store *jobs.Store, logger *slog.Logger) Deps {
	return Deps{
		Renderer: RunnerFromConfig(cfg, logger),
		Resolver: resolver.FromConfig(cfg, logger),
		Jobs:     store,
		Notifier: notifications.NewService(cfg),
		Logger:   logger,
	}
}
