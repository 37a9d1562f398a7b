package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	// Store selects the repository backend: "memory" or "redis".
	Store struct {
		Backend string `env:"STORE_BACKEND" envDefault:"memory"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	App struct {
		// Identity of the "current" user. There is no credential-based
		// authentication; every request acts as this user.
		CurrentUserID string `env:"CURRENT_USER_ID" envDefault:"user-1"`

		// Load demo users and sessions at startup so the configured
		// current user resolves out of the box.
		SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"true"`
	}
}

func Load() *Config {
	// Missing .env is fine; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
