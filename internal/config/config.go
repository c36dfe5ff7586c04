package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Redis         RedisConfig
	Collaborators CollaboratorsConfig `mapstructure:"collaborators"`
	Session       SessionConfig       `mapstructure:"session"`
	Tracing       TracingConfig       `mapstructure:"tracing"`
	CORS          CORSConfig          `mapstructure:"cors"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CollaboratorsConfig locates the external services the engine depends on:
// the test source, the submission sink and the leaderboard source.
type CollaboratorsConfig struct {
	TestSourceURL        string        `mapstructure:"test_source_url"`
	SubmissionSinkURL    string        `mapstructure:"submission_sink_url"`
	LeaderboardSourceURL string        `mapstructure:"leaderboard_source_url"`
	Timeout              time.Duration `mapstructure:"timeout_seconds"`
}

type SessionConfig struct {
	TestCacheTTL time.Duration `mapstructure:"test_cache_ttl_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("EXAMHALL")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Collaborators
	viper.BindEnv("collaborators.test_source_url", "TEST_SOURCE_URL")
	viper.BindEnv("collaborators.submission_sink_url", "SUBMISSION_SINK_URL")
	viper.BindEnv("collaborators.leaderboard_source_url", "LEADERBOARD_SOURCE_URL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Collaborators.Timeout = cfg.Collaborators.Timeout * time.Second
	if cfg.Collaborators.Timeout <= 0 {
		cfg.Collaborators.Timeout = 10 * time.Second
	}
	cfg.Session.TestCacheTTL = cfg.Session.TestCacheTTL * time.Minute
	if cfg.Session.TestCacheTTL <= 0 {
		cfg.Session.TestCacheTTL = 10 * time.Minute
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Server.Mode == "release" {
		if cfg.Collaborators.TestSourceURL == "" || cfg.Collaborators.SubmissionSinkURL == "" {
			return nil, fmt.Errorf("collaborator URLs must be configured in release mode")
		}
	}

	return &cfg, nil
}
