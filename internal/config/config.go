package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/almastelek/Sourceror/internal/catalog"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	BestBuy  BestBuyConfig  `yaml:"bestbuy"`
	Ebay     EbayConfig     `yaml:"ebay"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type BestBuyConfig struct {
	APIKey string `yaml:"api_key"`
}

type EbayConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type FetchConfig struct {
	MaxPerSource    int `yaml:"max_per_source"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

type ScoringConfig struct {
	DefaultWeights catalog.WeightVector `yaml:"default_weights"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Fetch.CacheTTLSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 8081,
		},
		Fetch: FetchConfig{
			MaxPerSource:    25,
			TimeoutSeconds:  30,
			CacheTTLSeconds: 600,
		},
		Scoring: ScoringConfig{
			DefaultWeights: catalog.DefaultWeights(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SOURCEROR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("SOURCEROR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("SOURCEROR_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("SOURCEROR_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SOURCEROR_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("SOURCEROR_BESTBUY_API_KEY"); v != "" {
		cfg.BestBuy.APIKey = v
	}
	if v := os.Getenv("SOURCEROR_EBAY_CLIENT_ID"); v != "" {
		cfg.Ebay.ClientID = v
	}
	if v := os.Getenv("SOURCEROR_EBAY_CLIENT_SECRET"); v != "" {
		cfg.Ebay.ClientSecret = v
	}
	if v := os.Getenv("SOURCEROR_MAX_PER_SOURCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.MaxPerSource = n
		}
	}
	if v := os.Getenv("SOURCEROR_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("SOURCEROR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
