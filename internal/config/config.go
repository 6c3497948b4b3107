package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Scan      ScanConfig              `mapstructure:"scan"`
	Filter    FilterConfig            `mapstructure:"filter"`
	Sources   map[string]SourceConfig `mapstructure:"sources"`
	Validator ValidatorConfig         `mapstructure:"validator"`
	Retention RetentionConfig         `mapstructure:"retention"`
	Archive   ArchiveConfig           `mapstructure:"archive"`
	Metrics   MetricsConfig           `mapstructure:"metrics"`
}

// ScanConfig controls the ingestion cycle.
type ScanConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
}

// FilterConfig holds quality filter thresholds. The literal values are
// deliberately configuration, not constants; the defaults pin the
// production behavior.
type FilterConfig struct {
	MinTypes        int     `mapstructure:"min_types"`        // distinct signal types required
	StrongMemeScore int     `mapstructure:"strong_meme_score"` // meme score that counts alone
	HighConfidence  float64 `mapstructure:"high_confidence"`  // single-signal confidence exception
	MinConfidence   float64 `mapstructure:"min_confidence"`   // global floor
}

// SourceConfig describes one signal source: its quality floors and its
// weighting profile for cross-source validation.
type SourceConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Quality floors. HighNoise sources must clear a per-kind mention floor.
	HighNoise          bool    `mapstructure:"high_noise"`
	MentionFloorEquity float64 `mapstructure:"mention_floor_equity"`
	MentionFloorCrypto float64 `mapstructure:"mention_floor_crypto"`

	// Validator weighting profile.
	BaseWeight  float64 `mapstructure:"base_weight"`
	Reliability float64 `mapstructure:"reliability"`
	TimeDecay   float64 `mapstructure:"time_decay"` // per-24h decay rate

	// Source class flags used by conflict detection and validation flags.
	Social     bool `mapstructure:"social"`
	Insider    bool `mapstructure:"insider"`
	MarketData bool `mapstructure:"market_data"`
}

// ValidatorConfig holds cross-source validation thresholds.
type ValidatorConfig struct {
	SentimentVarianceMax    float64       `mapstructure:"sentiment_variance_max"`
	TemporalWindow          time.Duration `mapstructure:"temporal_window"`
	ConflictSentimentGap    float64       `mapstructure:"conflict_sentiment_gap"`
	ConflictConfidenceFloor float64       `mapstructure:"conflict_confidence_floor"`
}

// RetentionConfig holds signal window and sweep scheduling.
type RetentionConfig struct {
	SignalWindow  time.Duration `mapstructure:"signal_window"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ArchiveConfig holds audit archive settings for evicted and rejected
// entities.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with the production source table and
// thresholds.
func Defaults() *Config {
	return &Config{
		Scan: ScanConfig{
			Interval:       15 * time.Minute,
			AdapterTimeout: 30 * time.Second,
		},
		Filter: FilterConfig{
			MinTypes:        2,
			StrongMemeScore: 2,
			HighConfidence:  85,
			MinConfidence:   60,
		},
		Sources: map[string]SourceConfig{
			"social_x": {
				Enabled:            true,
				HighNoise:          true,
				MentionFloorEquity: 10,
				MentionFloorCrypto: 5,
				BaseWeight:         1.0,
				Reliability:        0.6,
				TimeDecay:          2.0,
				Social:             true,
			},
			"trend_index": {
				Enabled:     true,
				BaseWeight:  0.8,
				Reliability: 0.7,
				TimeDecay:   1.5,
				Social:      true,
			},
			"market_scan": {
				Enabled:     true,
				BaseWeight:  1.2,
				Reliability: 0.85,
				TimeDecay:   1.0,
				MarketData:  true,
			},
			"insider_filings": {
				Enabled:     true,
				BaseWeight:  1.5,
				Reliability: 0.95,
				TimeDecay:   0.25,
				Insider:     true,
			},
		},
		Validator: ValidatorConfig{
			SentimentVarianceMax:    0.25,
			TemporalWindow:          48 * time.Hour,
			ConflictSentimentGap:    0.4,
			ConflictConfidenceFloor: 70,
		},
		Retention: RetentionConfig{
			SignalWindow:  7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Type:    "localfs",
			Path:    "./data/audit",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Filter.MinConfidence < 0 || c.Filter.MinConfidence > 100 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("filter.min_confidence must be between 0 and 100, got %f", c.Filter.MinConfidence))
	}
	if c.Filter.HighConfidence < c.Filter.MinConfidence {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("filter.high_confidence %f below min_confidence %f", c.Filter.HighConfidence, c.Filter.MinConfidence))
	}
	if c.Validator.SentimentVarianceMax <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("validator.sentiment_variance_max must be positive, got %f", c.Validator.SentimentVarianceMax))
	}
	if c.Retention.SignalWindow <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("retention.signal_window must be positive, got %s", c.Retention.SignalWindow))
	}

	for name, src := range c.Sources {
		if src.BaseWeight < 0 || src.Reliability < 0 || src.Reliability > 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("source %q: base_weight must be >= 0 and reliability in [0,1]", name))
		}
		if src.TimeDecay < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("source %q: time_decay cannot be negative", name))
		}
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("archive path required for localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("archive s3 bucket required"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown archive type %q", c.Archive.Type))
		}
	}

	return nil
}
