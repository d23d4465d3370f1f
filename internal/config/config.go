// Package config loads server configuration from a config file and
// environment variables, environment taking precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	redisstorage "github.com/pixelden/gameroom/internal/storage/redis"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	// Type is "memory", "redis" or "postgres"
	Type string `mapstructure:"type"`

	RedisURL     string        `mapstructure:"redis_url"`
	RedisPool    int           `mapstructure:"redis_pool"`
	RedisRoomTTL time.Duration `mapstructure:"redis_room_ttl"`

	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `mapstructure:"level"`
	// Format is "json" or "text"
	Format string `mapstructure:"format"`
}

// RedisConfig converts the storage settings into the redis backend's config
func (s StorageConfig) RedisConfig() redisstorage.Config {
	cfg := redisstorage.DefaultConfig()
	if s.RedisURL != "" {
		cfg.URL = s.RedisURL
	}
	if s.RedisPool > 0 {
		cfg.PoolSize = s.RedisPool
	}
	if s.RedisRoomTTL > 0 {
		cfg.RoomTTL = s.RedisRoomTTL
		cfg.SessionTTL = s.RedisRoomTTL
	}
	return cfg
}

// Load reads configuration from the given file (optional) and from
// GAMEROOM_* environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redis_url", "redis://localhost:6379")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("GAMEROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
