package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EncodingJSON = "json"
	EncodingForm = "form"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BoardHost             string        `mapstructure:"board_host"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	RetryCount            int           `mapstructure:"retry_count"`
	CreateEncoding        string        `mapstructure:"create_encoding"`
	UserAgent             string        `mapstructure:"user_agent"`

	BoardsFile          string        `mapstructure:"boards_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	RedisAddr              string        `mapstructure:"redis_addr"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	StubListenAddr string `mapstructure:"stub_listen_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-board-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("board_host", "https://ios-course-message-board.herokuapp.com")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("retry_count", 0)
	v.SetDefault("create_encoding", EncodingJSON)
	v.SetDefault("user_agent", "samvad-board-client")
	v.SetDefault("boards_file", "./configs/boards.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 60) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/posts.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("stub_listen_addr", ":8080")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives the duration fields.
func (cfg *Config) finalize() error {
	cfg.BoardHost = strings.TrimSpace(cfg.BoardHost)
	u, err := url.Parse(cfg.BoardHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid board_host %q (must be an absolute URL)", cfg.BoardHost)
	}

	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.RetryCount < 0 {
		return fmt.Errorf("invalid retry_count (must not be negative)")
	}

	cfg.CreateEncoding = strings.ToLower(strings.TrimSpace(cfg.CreateEncoding))
	switch cfg.CreateEncoding {
	case EncodingJSON, EncodingForm:
	default:
		return fmt.Errorf("invalid create_encoding %q (expected %q or %q)", cfg.CreateEncoding, EncodingJSON, EncodingForm)
	}

	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
