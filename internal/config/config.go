package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Validation errors
var (
	ErrInvalidPort      = errors.New("invalid server port")
	ErrMissingSource    = errors.New("source base_url or dir is required")
	ErrInvalidPattern   = errors.New("source file_pattern must contain one %s verb")
	ErrInvalidTopN      = errors.New("pipeline top_n must be positive")
	ErrInvalidRateLimit = errors.New("rate_limit requests and window must be positive")
	ErrMissingSecret    = errors.New("auth jwt_secret is required")
	ErrWeakSecret       = errors.New("auth jwt_secret is too short")
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Source    SourceConfig    `mapstructure:"source"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds the snapshot store location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SourceConfig describes where the metric tables come from
type SourceConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Dir         string        `mapstructure:"dir"` // Overrides BaseURL when set
	FilePattern string        `mapstructure:"file_pattern"`
	Timeout     time.Duration `mapstructure:"timeout"` // 0 = no timeout
}

// PipelineConfig controls merging and ranking
type PipelineConfig struct {
	StrictSchema bool `mapstructure:"strict_schema"`
	TopN         int  `mapstructure:"top_n"`
}

// RefreshConfig controls the scheduled reload
type RefreshConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron expression
}

// AuthConfig holds admin token settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RateLimitConfig limits admin reload requests per client
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

const (
	envPrefix = "CASEMAP"

	DefaultBaseURL     = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series"
	DefaultFilePattern = "time_series_19-covid-%s.csv"
	DefaultDBPath      = "file:casemap?mode=memory&cache=shared"

	// MinSecretLength is the shortest accepted HS256 signing key, in bytes
	MinSecretLength = 32
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("source.base_url", DefaultBaseURL)
	v.SetDefault("source.dir", "")
	v.SetDefault("source.file_pattern", DefaultFilePattern)
	v.SetDefault("source.timeout", time.Duration(0))
	v.SetDefault("pipeline.strict_schema", true)
	v.SetDefault("pipeline.top_n", 10)
	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.schedule", "0 */6 * * *")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "casemap")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("rate_limit.requests", 5)
	v.SetDefault("rate_limit.window", time.Minute)
}

// Load 加载配置: defaults, then the optional YAML file, then CASEMAP_* env vars.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return ErrInvalidPort
	}
	if c.Source.BaseURL == "" && c.Source.Dir == "" {
		return ErrMissingSource
	}
	if strings.Count(c.Source.FilePattern, "%s") != 1 {
		return ErrInvalidPattern
	}
	if c.Pipeline.TopN <= 0 {
		return ErrInvalidTopN
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// Validate checks the signing key; only the server and token minting need one
func (a AuthConfig) Validate() error {
	if a.JWTSecret == "" {
		return ErrMissingSecret
	}
	if len(a.JWTSecret) < MinSecretLength {
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrWeakSecret, len(a.JWTSecret), MinSecretLength)
	}
	return nil
}
