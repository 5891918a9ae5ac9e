// Package config loads the application configuration from YAML with struct-tag defaults,
// environment overrides and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/market-bubbles/insight"
	"github.com/lixenwraith/market-bubbles/logging"
	"github.com/lixenwraith/market-bubbles/provider"
	"github.com/lixenwraith/market-bubbles/terminal"
)

// Provider kinds
const (
	ProviderGamma = "gamma"
	ProviderFile  = "file"
)

// Config is the root configuration document
type Config struct {
	Surface  SurfaceConfig  `yaml:"surface"`
	Provider ProviderConfig `yaml:"provider"`
	Insight  InsightConfig  `yaml:"insight"`
	Log      logging.Config `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Audio    AudioConfig    `yaml:"audio"`
}

// SurfaceConfig sets the pixel density of a terminal cell and the frame rate
type SurfaceConfig struct {
	CellWidth  float64 `yaml:"cell_width" default:"8" validate:"gt=0"`
	CellHeight float64 `yaml:"cell_height" default:"16" validate:"gt=0"`
	FPS        int     `yaml:"fps" default:"60" validate:"min=1,max=240"`
}

// ProviderConfig selects and tunes the market data source
type ProviderConfig struct {
	Kind        string        `yaml:"kind" default:"gamma" validate:"oneof=gamma file"`
	URL         string        `yaml:"url" default:"https://gamma-api.polymarket.com" validate:"omitempty,url"`
	File        string        `yaml:"file" validate:"required_if=Kind file"`
	Watch       bool          `yaml:"watch" default:"true"`
	Interval    time.Duration `yaml:"interval" default:"60s" validate:"min=1s"`
	Timeout     time.Duration `yaml:"timeout" default:"20s" validate:"gt=0"`
	Limit       int           `yaml:"limit" default:"200" validate:"min=1,max=1000"`
	PerCategory int           `yaml:"per_category" default:"10" validate:"min=1,max=50"`
}

// InsightConfig points at an OpenAI-compatible endpoint, empty endpoint selects the local heuristic
type InsightConfig struct {
	Endpoint  string        `yaml:"endpoint" validate:"omitempty,url"`
	Model     string        `yaml:"model" default:"gpt-4o-mini"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout" default:"20s" validate:"gt=0"`
	MaxTokens int           `yaml:"max_tokens" default:"160" validate:"min=1"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// AudioConfig toggles interface sounds
type AudioConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// Environment overrides, applied after the file
const (
	EnvInsightAPIKey   = "MB_INSIGHT_API_KEY"
	EnvInsightEndpoint = "MB_INSIGHT_ENDPOINT"
	EnvProviderKind    = "MB_PROVIDER"
	EnvProviderURL     = "MB_PROVIDER_URL"
	EnvProviderFile    = "MB_PROVIDER_FILE"
	EnvLogLevel        = "MB_LOG_LEVEL"
	EnvLogOutput       = "MB_LOG_OUTPUT"
	EnvMetricsAddr     = "MB_METRICS_ADDR"
	EnvAudio           = "MB_AUDIO"
)

var validate = validator.New()

// Default returns a configuration with every default applied
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads path over the defaults, applies environment overrides and validates
// An empty path skips the file
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from MB_* environment variables
func (c *Config) ApplyEnv() error {
	strs := []struct {
		env string
		dst *string
	}{
		{EnvInsightAPIKey, &c.Insight.APIKey},
		{EnvInsightEndpoint, &c.Insight.Endpoint},
		{EnvProviderKind, &c.Provider.Kind},
		{EnvProviderURL, &c.Provider.URL},
		{EnvProviderFile, &c.Provider.File},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogOutput, &c.Log.Output},
		{EnvMetricsAddr, &c.Metrics.Addr},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.env); ok {
			*s.dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvAudio); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAudio, err)
		}
		c.Audio.Enabled = b
	}
	return nil
}

// Validate checks struct tags and reports the offending fields
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Errorf("%s: failed %s", e.Namespace(), tagDescription(e)))
	}
	return errors.Join(msgs...)
}

func tagDescription(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}

// FrameInterval converts FPS to a ticker period
func (s SurfaceConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Metrics returns the cell metrics for hit testing and rendering
func (s SurfaceConfig) Metrics() terminal.Metrics {
	return terminal.Metrics{CellWidth: s.CellWidth, CellHeight: s.CellHeight}
}

// Source builds the configured market source
func (p ProviderConfig) Source(opts ...provider.GammaOption) provider.Source {
	if p.Kind == ProviderFile {
		return provider.NewFileSource(p.File)
	}
	return provider.NewGammaClient(p.URL, p.Timeout, append([]provider.GammaOption{provider.WithLimit(p.Limit)}, opts...)...)
}

// Refresher returns the polling cadence
func (p ProviderConfig) Refresher() provider.RefresherConfig {
	return provider.RefresherConfig{
		Interval:    p.Interval,
		Timeout:     p.Timeout,
		PerCategory: p.PerCategory,
	}
}

// Remote reports whether an insight endpoint is configured
func (i InsightConfig) Remote() bool {
	return i.Endpoint != ""
}

// HTTP returns the endpoint settings
func (i InsightConfig) HTTP() insight.HTTPConfig {
	return insight.HTTPConfig{
		Endpoint:  i.Endpoint,
		Model:     i.Model,
		APIKey:    i.APIKey,
		Timeout:   i.Timeout,
		MaxTokens: i.MaxTokens,
	}
}
