package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the externally supplied configuration surface: listen address,
// TLS material, loop timings, and the rule set to run. Everything has a
// sensible default so a bare environment starts a playable server.
type Config struct {
	Addr        string `env:"GAME_ADDR" envDefault:":8443"`
	TLSCertFile string `env:"GAME_TLS_CERT"`
	TLSKeyFile  string `env:"GAME_TLS_KEY"`

	TickRate          int           `env:"GAME_TICK_RATE" envDefault:"60"`
	InactivityTimeout time.Duration `env:"GAME_INACTIVITY_TIMEOUT" envDefault:"60s"`
	TurnTimeout       time.Duration `env:"GAME_TURN_TIMEOUT" envDefault:"60s"`
	LobbyInterval     time.Duration `env:"GAME_LOBBY_INTERVAL" envDefault:"5s"`

	Ruleset string `env:"GAME_RULESET" envDefault:"race"`
	LogFile string `env:"GAME_LOG_FILE"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.InactivityTimeout <= 0 {
		return fmt.Errorf("inactivity timeout must be positive, got %s", c.InactivityTimeout)
	}
	if c.TurnTimeout <= 0 {
		return fmt.Errorf("turn timeout must be positive, got %s", c.TurnTimeout)
	}
	if c.LobbyInterval <= 0 {
		return fmt.Errorf("lobby interval must be positive, got %s", c.LobbyInterval)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS cert and key must be configured together")
	}
	return nil
}

// TickInterval returns the fixed tick budget.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
