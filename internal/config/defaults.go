package config

const (
	defaultConfigPath                   = "~/.config/clipwright/config.toml"
	defaultStateDir                     = "~/.local/share/clipwright"
	defaultLogDir                       = "~/.local/share/clipwright/logs"
	defaultRenderDir                    = "~/.local/share/clipwright/render"
	defaultRenderBaseURL                = "https://api.shotstack.io/stage"
	defaultRenderPollIntervalSeconds    = 10
	defaultRenderTimeoutSeconds         = 900
	defaultRenderRequestTimeoutSeconds  = 30
	defaultRenderDownloadTimeoutSeconds = 300
	defaultLLMBaseURL                   = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                     = "google/gemini-3-flash-preview"
	defaultLLMReferer                   = "https://github.com/clipwright/clipwright"
	defaultLLMTitle                     = "clipwright"
	defaultLLMTimeoutSeconds            = 60
	defaultAPIBind                      = "127.0.0.1:7489"
	defaultMCPServerName                = "clipwright"
	defaultNotifyRequestTimeout         = 10
	defaultLogFormat                    = "console"
	defaultLogLevel                     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			RenderDir: defaultRenderDir,
		},
		Render: Render{
			BaseURL:                defaultRenderBaseURL,
			PollIntervalSeconds:    defaultRenderPollIntervalSeconds,
			PollMaxIntervalSeconds: defaultRenderPollIntervalSeconds,
			TimeoutSeconds:         defaultRenderTimeoutSeconds,
			RequestTimeoutSeconds:  defaultRenderRequestTimeoutSeconds,
			DownloadTimeoutSeconds: defaultRenderDownloadTimeoutSeconds,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		MCP: MCP{
			ServerName: defaultMCPServerName,
		},
		Notifications: Notifications{
			RequestTimeout:  defaultNotifyRequestTimeout,
			RenderCompleted: true,
			RenderFailed:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
