package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		CORSAllowOrigins []string `toml:"cors_allow_origins"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	RateLimit struct {
		Enabled       bool   `toml:"enabled"`
		RedisURL      string `toml:"redis_url"`
		Requests      int    `toml:"requests"`
		WindowSeconds int    `toml:"window_seconds"`
	} `toml:"ratelimit"`
}

func (c *Config) RateLimitWindow() time.Duration {
	if c.RateLimit.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config")
	}
	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}
	if len(config.API.CORSAllowOrigins) == 0 {
		config.API.CORSAllowOrigins = []string{"*"}
	}
	if config.RateLimit.Enabled && config.RateLimit.Requests <= 0 {
		return nil, fmt.Errorf("Rate limit is enabled but requests per window is not set")
	}

	logger.Debug.Printf("Loaded config: port=%s dsn=%s", config.Server.Port, config.Database.DSN)

	return &config, nil
}
