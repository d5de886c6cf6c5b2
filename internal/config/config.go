package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/fetcher"
	"github.com/sdshc/costshare/internal/source"
)

// Config holds the full application configuration.
type Config struct {
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourcesConfig locates the two program tables.
type SourcesConfig struct {
	Contracts source.Config `yaml:"contracts" mapstructure:"contracts"`
	Funding   source.Config `yaml:"funding" mapstructure:"funding"`
}

// FetchConfig configures downloads of remote tables.
type FetchConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// Options converts the section to fetcher options.
func (c FetchConfig) Options() fetcher.Options {
	return fetcher.Options{
		UserAgent:         c.UserAgent,
		Timeout:           time.Duration(c.TimeoutSecs) * time.Second,
		MaxRetries:        c.MaxRetries,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// DashboardConfig configures the views.
type DashboardConfig struct {
	DefaultSegment string `yaml:"default_segment" mapstructure:"default_segment"`
	ImpactLimit    int    `yaml:"impact_limit" mapstructure:"impact_limit"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COSTSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv can bind it on Unmarshal.
	v.SetDefault("sources.contracts.uri", "data.csv")
	v.SetDefault("sources.contracts.table", "")
	v.SetDefault("sources.contracts.sheet", "")
	v.SetDefault("sources.funding.uri", "funding.csv")
	v.SetDefault("sources.funding.table", "")
	v.SetDefault("sources.funding.sheet", "")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "costshare/1.0")
	v.SetDefault("fetch.requests_per_second", 5)
	v.SetDefault("dashboard.default_segment", string(conservation.SegmentAll))
	v.SetDefault("dashboard.impact_limit", conservation.DefaultImpactLimit)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command depends on. mode is the command
// name; "serve" also checks the server section.
func (c *Config) Validate(mode string) error {
	var problems []string

	if strings.TrimSpace(c.Sources.Contracts.URI) == "" {
		problems = append(problems, "sources.contracts.uri is required")
	}
	if _, err := conservation.ParseSegment(c.Dashboard.DefaultSegment); err != nil {
		problems = append(problems, fmt.Sprintf("dashboard.default_segment: %v", err))
	}
	if c.Dashboard.ImpactLimit < 0 {
		problems = append(problems, "dashboard.impact_limit must be >= 0")
	}
	if c.Fetch.TimeoutSecs < 0 || c.Fetch.MaxRetries < 0 || c.Fetch.RequestsPerSecond < 0 {
		problems = append(problems, "fetch settings must not be negative")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
		}
	case "summary", "funding", "records", "export":
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
