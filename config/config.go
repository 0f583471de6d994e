package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Browser  BrowserConfig  `yaml:"browser"`
	Search   SearchConfig   `yaml:"search"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Redis is optional; an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	SearchTopic string   `yaml:"search_topic"`
	GroupID     string   `yaml:"group_id"`
}

type UpstreamConfig struct {
	BaseURL        string            `yaml:"base_url"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	RatePerSecond  float64           `yaml:"rate_per_second"`
	Burst          int               `yaml:"burst"`
}

func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

type BrowserConfig struct {
	Enabled        bool   `yaml:"enabled"`
	StartURL       string `yaml:"start_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (b BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type SearchConfig struct {
	MaxConcurrent       int64 `yaml:"max_concurrent"`
	ChartTimeoutSeconds int   `yaml:"chart_timeout_seconds"`
	StatsCacheTTL       int   `yaml:"stats_cache_ttl_seconds"`
}

func (s SearchConfig) ChartTimeout() time.Duration {
	return time.Duration(s.ChartTimeoutSeconds) * time.Second
}

func (s SearchConfig) StatsTTL() time.Duration {
	return time.Duration(s.StatsCacheTTL) * time.Second
}

type WorkerConfig struct {
	StatsRefreshMinutes int `yaml:"stats_refresh_minutes"`
	NotifyBelowPrice    int `yaml:"notify_below_price"`
}

type LogConfig struct {
	Env  string `yaml:"env"`
	File string `yaml:"file"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("UPSTREAM_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("UPSTREAM_API_KEY"); v != "" {
		if c.Upstream.Headers == nil {
			c.Upstream.Headers = make(map[string]string)
		}
		c.Upstream.Headers["x-rapidapi-key"] = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Log.Env = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "flights.db"
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		c.Upstream.TimeoutSeconds = 15
	}
	if c.Upstream.RatePerSecond <= 0 {
		c.Upstream.RatePerSecond = 2
	}
	if c.Upstream.Burst <= 0 {
		c.Upstream.Burst = 1
	}
	if c.Browser.StartURL == "" {
		c.Browser.StartURL = "https://www.skyscanner.co.in/"
	}
	if c.Browser.TimeoutSeconds <= 0 {
		c.Browser.TimeoutSeconds = 10
	}
	if c.Search.MaxConcurrent <= 0 {
		c.Search.MaxConcurrent = 1
	}
	if c.Search.ChartTimeoutSeconds <= 0 {
		c.Search.ChartTimeoutSeconds = 10
	}
	if c.Search.StatsCacheTTL <= 0 {
		c.Search.StatsCacheTTL = 300
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "farescope-worker"
	}
	if c.Worker.StatsRefreshMinutes <= 0 {
		c.Worker.StatsRefreshMinutes = 5
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	return nil
}
