package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root of config/config.yaml.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Bank     BankConfig     `mapstructure:"bank"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite | mysql | postgres
	Path         string `mapstructure:"path"`   // sqlite file
	DSN          string `mapstructure:"dsn"`    // mysql / postgres
	LogLevel     string `mapstructure:"log_level"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type ServerConfig struct {
	Port              int    `mapstructure:"port"`
	SessionStore      string `mapstructure:"session_store"` // memory | redis
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type BankConfig struct {
	IssuerID          string `mapstructure:"issuer_id"`
	MaxCreateAttempts int    `mapstructure:"max_create_attempts"`
}

const envPrefix = "CARDBANK"

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "card.s3db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_store", "memory")
	v.SetDefault("server.session_ttl_minutes", 30)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("bank.issuer_id", "400000")
	v.SetDefault("bank.max_create_attempts", 10)
}

// LoadConfig resolves settings with precedence defaults < file < environment.
//
// configPath may be empty or point to a missing file; defaults and
// CARDBANK_* environment variables still apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", configPath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "mysql", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	switch c.Server.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported server.session_store %q", c.Server.SessionStore)
	}

	if c.Bank.MaxCreateAttempts < 1 {
		return errors.New("bank.max_create_attempts must be at least 1")
	}
	return nil
}
