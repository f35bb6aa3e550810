package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeYouTube()
	c.normalizeSourcing()
	c.normalizeMCP()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProviderCatalog) == "" {
		c.Paths.ProviderCatalog = defaultProviderCatalog
	}
	if c.Paths.ProviderCatalog, err = expandPath(c.Paths.ProviderCatalog); err != nil {
		return fmt.Errorf("paths.provider_catalog: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	c.YouTube.APIKeyFallback = strings.TrimSpace(c.YouTube.APIKeyFallback)
	c.YouTube.BaseURL = strings.TrimRight(strings.TrimSpace(c.YouTube.BaseURL), "/")
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	if c.YouTube.MaxPerQuery <= 0 {
		c.YouTube.MaxPerQuery = defaultYouTubeMaxResults
	}
	if c.YouTube.TimeoutSeconds <= 0 {
		c.YouTube.TimeoutSeconds = defaultYouTubeTimeout
	}
	if c.YouTube.RatePerSecond <= 0 {
		c.YouTube.RatePerSecond = defaultYouTubeRate
	}
}

func (c *Config) normalizeSourcing() {
	if c.Sourcing.MaxSuggestions <= 0 {
		c.Sourcing.MaxSuggestions = defaultMaxSuggestions
	}
	if c.Sourcing.MinDurationFactor <= 0 {
		c.Sourcing.MinDurationFactor = defaultMinDurationFactor
	}
	if c.Sourcing.MaxDurationFactor <= 0 {
		c.Sourcing.MaxDurationFactor = defaultMaxDurationFactor
	}
	if c.Sourcing.ProgressBuffer <= 0 {
		c.Sourcing.ProgressBuffer = defaultProgressBuffer
	}
}

func (c *Config) normalizeMCP() {
	if c.MCP.TimeoutSeconds <= 0 {
		c.MCP.TimeoutSeconds = defaultMCPTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
