package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is loaded from the environment, with an optional .env file for
// local development. Every knob has a sane default; the service runs with
// no environment at all.
type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	DatabaseFile string `env:"GATE_DATABASE_FILE" envDefault:"gate.db"`

	// CookieName matches what the front end expects; the default mirrors
	// the header the token would otherwise ride in.
	CookieName    string `env:"GATE_COOKIE_NAME" envDefault:"Authorization"`
	SecureCookies bool   `env:"GATE_SECURE_COOKIES" envDefault:"false"`

	RateLoginLimit int64         `env:"GATE_RATE_LOGIN_LIMIT" envDefault:"5"`
	RateWriteLimit int64         `env:"GATE_RATE_WRITE_LIMIT" envDefault:"20"`
	RateReadLimit  int64         `env:"GATE_RATE_READ_LIMIT" envDefault:"60"`
	RateWindow     time.Duration `env:"GATE_RATE_WINDOW" envDefault:"60s"`

	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads .env when present, then parses the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
