package config

import (
	"fmt"
	"regexp"
	"time"

	"scrape-validator/internal/scoring"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LookupConfig controls the ground-truth tweet search provider.
type LookupConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  string `mapstructure:"timeout"`   // duration string, e.g., "30s"
	CacheTTL string `mapstructure:"cache_ttl"` // "0" disables the redis cache
}

// SpotCheckConfig mirrors scoring.RetryPolicy plus the accepted permalink shapes.
type SpotCheckConfig struct {
	MaxRounds         int      `mapstructure:"max_rounds"`
	BatchSize         int      `mapstructure:"batch_size"`
	StopAt            int      `mapstructure:"stop_at"`
	BatchTimeout      string   `mapstructure:"batch_timeout"`
	PermalinkPatterns []string `mapstructure:"permalink_patterns"`
}

// ScoringConfig controls the aggregator.
type ScoringConfig struct {
	Tag           string          `mapstructure:"tag"`
	Weights       scoring.Weights `mapstructure:"weights"`
	HistorySource string          `mapstructure:"history_source"`
}

// WorkerConfig controls the queued round scorer.
type WorkerConfig struct {
	PollTimeout string `mapstructure:"poll_timeout"`
	ResultTTL   string `mapstructure:"result_ttl"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Lookup    LookupConfig    `mapstructure:"lookup"`
	SpotCheck SpotCheckConfig `mapstructure:"spotcheck"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Lookup.Timeout == "" {
		c.Lookup.Timeout = "30s"
	}
	if c.Lookup.CacheTTL == "" {
		c.Lookup.CacheTTL = "24h"
	}
	def := scoring.DefaultRetryPolicy()
	if c.SpotCheck.MaxRounds == 0 {
		c.SpotCheck.MaxRounds = def.MaxRounds
	}
	if c.SpotCheck.BatchSize == 0 {
		c.SpotCheck.BatchSize = def.BatchSize
	}
	if c.SpotCheck.StopAt == 0 {
		c.SpotCheck.StopAt = def.StopAt
	}
	if c.SpotCheck.BatchTimeout == "" {
		c.SpotCheck.BatchTimeout = def.BatchTimeout.String()
	}
	if c.Scoring.Tag == "" {
		c.Scoring.Tag = "tao"
	}
	if c.Scoring.Weights == (scoring.Weights{}) {
		c.Scoring.Weights = scoring.DefaultWeights()
	}
	if c.Scoring.Weights.MinRelevance == 0 {
		c.Scoring.Weights.MinRelevance = scoring.DefaultWeights().MinRelevance
	}
	if c.Scoring.HistorySource == "" {
		c.Scoring.HistorySource = "twitter"
	}
	if c.Worker.PollTimeout == "" {
		c.Worker.PollTimeout = "5s"
	}
	if c.Worker.ResultTTL == "" {
		c.Worker.ResultTTL = "720h"
	}
}

// RetryPolicy converts the spot-check section into a validated policy.
func (c SpotCheckConfig) RetryPolicy() (scoring.RetryPolicy, error) {
	timeout, err := time.ParseDuration(c.BatchTimeout)
	if err != nil {
		return scoring.RetryPolicy{}, fmt.Errorf("invalid spotcheck.batch_timeout: %w", err)
	}
	p := scoring.RetryPolicy{
		MaxRounds:    c.MaxRounds,
		BatchSize:    c.BatchSize,
		StopAt:       c.StopAt,
		BatchTimeout: timeout,
	}
	return p, p.Validate()
}

// Patterns compiles the configured permalink patterns; nil means use the defaults.
func (c SpotCheckConfig) Patterns() ([]*regexp.Regexp, error) {
	if len(c.PermalinkPatterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(c.PermalinkPatterns))
	for _, p := range c.PermalinkPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid spotcheck.permalink_patterns entry %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Durations parses every duration string in the config, returning the first error.
func (c Config) Durations() (Durations, error) {
	var d Durations
	for _, f := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"lookup.timeout", c.Lookup.Timeout, &d.LookupTimeout},
		{"lookup.cache_ttl", c.Lookup.CacheTTL, &d.CacheTTL},
		{"worker.poll_timeout", c.Worker.PollTimeout, &d.PollTimeout},
		{"worker.result_ttl", c.Worker.ResultTTL, &d.ResultTTL},
	} {
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return d, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return d, nil
}

// Durations holds the parsed duration settings.
type Durations struct {
	LookupTimeout time.Duration
	CacheTTL      time.Duration
	PollTimeout   time.Duration
	ResultTTL     time.Duration
}
