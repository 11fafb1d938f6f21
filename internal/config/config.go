// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"socialpulse/internal/api"
	"socialpulse/internal/observability"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"`

	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APIToken          string `mapstructure:"API_TOKEN"`
	APIRetries        int    `mapstructure:"API_RETRIES"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`
	TopUsersLimit     int    `mapstructure:"TOP_USERS_LIMIT"`
	FeedPollSeconds   int    `mapstructure:"FEED_POLL_SECONDS"`
	TimestampPolicy   string `mapstructure:"TIMESTAMP_POLICY"`
	CommentPolicy     string `mapstructure:"COMMENT_POLICY"`
	CommentUserID     int    `mapstructure:"COMMENT_USER_ID"`
	AvatarBaseURL     string `mapstructure:"AVATAR_BASE_URL"`
	PostImageBaseURL  string `mapstructure:"POST_IMAGE_BASE_URL"`
	MockDataFile      string `mapstructure:"MOCK_DATA_FILE"`

	RedisURL                 string `mapstructure:"REDIS_URL"`
	CacheTTLSeconds          int    `mapstructure:"CACHE_TTL_SECONDS"`
	CommentRateLimit         int    `mapstructure:"COMMENT_RATE_LIMIT"`
	CommentRateWindowSeconds int    `mapstructure:"COMMENT_RATE_WINDOW_SECONDS"`
	AllowedOrigins           string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags             string `mapstructure:"FEATURE_FLAGS"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.GetViper()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The base file is optional; everything has a default.
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		observability.GlobalLogger.Info("loaded profile-specific configuration", "file", "config."+env+".yml")
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8375")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_BASE_URL", "http://20.244.56.144/test")
	v.SetDefault("API_TOKEN", "")
	v.SetDefault("API_RETRIES", api.DefaultRetries)
	v.SetDefault("API_TIMEOUT_SECONDS", 10)
	v.SetDefault("TOP_USERS_LIMIT", api.DefaultTopUsersLimit)
	v.SetDefault("FEED_POLL_SECONDS", 10)
	v.SetDefault("TIMESTAMP_POLICY", string(api.TimestampFirstSeen))
	v.SetDefault("COMMENT_POLICY", string(api.CommentOptimistic))
	v.SetDefault("COMMENT_USER_ID", 1)
	v.SetDefault("AVATAR_BASE_URL", api.DefaultAvatarBaseURL)
	v.SetDefault("POST_IMAGE_BASE_URL", api.DefaultPostImageBaseURL)
	v.SetDefault("MOCK_DATA_FILE", "")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("CACHE_TTL_SECONDS", 30)
	v.SetDefault("COMMENT_RATE_LIMIT", 5)
	v.SetDefault("COMMENT_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	v.SetDefault("FEATURE_FLAGS", "")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.TimestampPolicy = strings.ToLower(strings.TrimSpace(c.TimestampPolicy))
	c.CommentPolicy = strings.ToLower(strings.TrimSpace(c.CommentPolicy))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// Validate ensures that required configuration values are present and usable.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
	}
	if c.APIRetries < 0 {
		return errors.New("API_RETRIES must not be negative")
	}
	if c.APITimeoutSeconds <= 0 {
		return errors.New("API_TIMEOUT_SECONDS must be positive")
	}
	if c.TopUsersLimit <= 0 {
		return errors.New("TOP_USERS_LIMIT must be positive")
	}
	if c.FeedPollSeconds <= 0 {
		return errors.New("FEED_POLL_SECONDS must be positive")
	}
	if _, err := api.ParseTimestampPolicy(c.TimestampPolicy); err != nil {
		return fmt.Errorf("TIMESTAMP_POLICY: %w", err)
	}
	if _, err := api.ParseCommentPolicy(c.CommentPolicy); err != nil {
		return fmt.Errorf("COMMENT_POLICY: %w", err)
	}
	if c.CacheTTLSeconds < 0 {
		return errors.New("CACHE_TTL_SECONDS must not be negative")
	}
	if c.CommentRateLimit <= 0 || c.CommentRateWindowSeconds <= 0 {
		return errors.New("COMMENT_RATE_LIMIT and COMMENT_RATE_WINDOW_SECONDS must be positive")
	}
	if c.TracingExporter != "stdout" && c.TracingExporter != "otlp" {
		return fmt.Errorf("TRACING_EXPORTER %q must be stdout or otlp", c.TracingExporter)
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	logger := observability.GlobalLogger
	if c.APIToken == "" {
		logger.Warn("API_TOKEN is empty; the remote API will likely reject requests and mock data will be served")
	} else if exp, ok, err := api.TokenExpiry(c.APIToken); err != nil {
		logger.Warn("API_TOKEN is not a decodable JWT", "error", err)
	} else if ok && exp.Before(time.Now()) {
		logger.Warn("API_TOKEN has expired; mock data will be served", "expired_at", exp)
	}

	if c.IsProduction() && c.AllowedOrigins == "*" {
		logger.Warn("ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
	}

	return nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// APIOptions translates the configuration into data access client options.
// The mock dataset is left for the caller to fill in.
func (c *Config) APIOptions() api.Options {
	ts, _ := api.ParseTimestampPolicy(c.TimestampPolicy)
	cp, _ := api.ParseCommentPolicy(c.CommentPolicy)

	opts := api.DefaultOptions(c.APIBaseURL, c.APIToken)
	opts.Retries = c.APIRetries
	opts.RequestTimeout = time.Duration(c.APITimeoutSeconds) * time.Second
	opts.TopUsersLimit = c.TopUsersLimit
	opts.Timestamps = ts
	opts.Comments = cp
	opts.AvatarBaseURL = c.AvatarBaseURL
	opts.PostImageBaseURL = c.PostImageBaseURL
	return opts
}

// FeedPollInterval is the Feed view refresh period.
func (c *Config) FeedPollInterval() time.Duration {
	return time.Duration(c.FeedPollSeconds) * time.Second
}

// CacheTTL is the lifetime of cached data layer responses; zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CommentRateWindow is the window of the comment rate limit.
func (c *Config) CommentRateWindow() time.Duration {
	return time.Duration(c.CommentRateWindowSeconds) * time.Second
}

// Origins returns ALLOWED_ORIGINS split on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Tracing returns the tracer settings.
func (c *Config) Tracing(serviceName, version string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    c.Env,
		Enabled:        c.TracingEnabled,
		Exporter:       c.TracingExporter,
		OTLPEndpoint:   c.OTLPEndpoint,
		SamplerRatio:   c.TracingSampleRatio,
	}
}
