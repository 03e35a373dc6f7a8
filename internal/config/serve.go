package config

import (
	"time"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Midgard       MidgardConfig
	Addr          string
	ChainMap      map[string]string
	PGDSN         string
	RedisURL      string
	RedisPassword string
	CacheTTL      time.Duration
	LogLevel      string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}
	v.SetDefault("addr", ":8080")
	v.SetDefault("result-ttl", 24*time.Hour)

	cfg := ServeConfig{
		Midgard:       midgardConfig(v),
		Addr:          v.GetString("addr"),
		ChainMap:      getStringMap(v, "chain-map"),
		PGDSN:         v.GetString("pg-dsn"),
		RedisURL:      v.GetString("redis-url"),
		RedisPassword: v.GetString("redis-password"),
		CacheTTL:      v.GetDuration("result-ttl"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}
