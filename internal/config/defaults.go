package config

const (
	defaultDataDir           = "~/.local/share/clipforge"
	defaultLogDir            = "~/.local/share/clipforge/logs"
	defaultProviderCatalog   = "~/.config/clipforge/providers.toml"
	defaultAPIBind           = "127.0.0.1:7842"
	defaultYouTubeBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultYouTubeMaxResults = 10
	defaultYouTubeTimeout    = 15
	defaultYouTubeRate       = 4.0
	defaultMaxSuggestions    = 8
	defaultMinDurationFactor = 1.0
	defaultMaxDurationFactor = 3.0
	defaultProgressBuffer    = 16
	defaultMCPTimeout        = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:         defaultDataDir,
			LogDir:          defaultLogDir,
			ProviderCatalog: defaultProviderCatalog,
			APIBind:         defaultAPIBind,
		},
		YouTube: YouTube{
			BaseURL:        defaultYouTubeBaseURL,
			MaxPerQuery:    defaultYouTubeMaxResults,
			TimeoutSeconds: defaultYouTubeTimeout,
			RatePerSecond:  defaultYouTubeRate,
		},
		Sourcing: Sourcing{
			MaxSuggestions:    defaultMaxSuggestions,
			MinDurationFactor: defaultMinDurationFactor,
			MaxDurationFactor: defaultMaxDurationFactor,
			ProgressBuffer:    defaultProgressBuffer,
		},
		MCP: MCP{
			TimeoutSeconds: defaultMCPTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
