package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	PairingCode   string `mapstructure:"PAIRING_CODE"`
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`

	LocationIntervalMs int     `mapstructure:"LOCATION_INTERVAL_MS"`
	LocationDistanceM  float64 `mapstructure:"LOCATION_DISTANCE_M"`
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", "127.0.0.1:8080")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("PAIRING_CODE", "000000")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("SQLITE_PATH", "./data/safedrive.db")
	v.SetDefault("LOCATION_INTERVAL_MS", 1000)
	v.SetDefault("LOCATION_DISTANCE_M", 5)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}
