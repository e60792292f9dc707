package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	PoolSize   int    `envconfig:"ORDIX_POOL_SIZE" default:"20"`
	BonusEvery int    `envconfig:"ORDIX_BONUS_EVERY" default:"7"`
	OrderRule  string `envconfig:"ORDIX_ORDER_RULE" default:"placement"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"memory"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"ordix.db"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	LeaderboardDriver       string `envconfig:"LEADERBOARD_DRIVER" default:"memory"`
	DatabaseURL             string `envconfig:"DATABASE_URL"`
	FirebaseProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsPath string `envconfig:"FIREBASE_CREDENTIALS_PATH"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// Load reads the configuration from the environment. Malformed values are
// reported; range checks are left to the components that consume them.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
