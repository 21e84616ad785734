package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"data/stagemind.json"`

	// PersonaName is the character the bot plays. Directive parsing,
	// mention detection and puppeted lines all key off this name.
	PersonaName string `env:"PERSONA_NAME" envDefault:"Seren"`

	// ExpertiseDomains are the topic domains the persona may discuss with
	// authority. A theme match outside this list never triggers a
	// technical response.
	ExpertiseDomains []string `env:"EXPERTISE_DOMAINS" envSeparator:"," envDefault:"stellar-navigation,dance"`

	// EmpathyOverride is the confidence at which an emotional-support
	// signal beats a competing group-address signal. Product tuning
	// parameter, not a structural constant.
	EmpathyOverride float64 `env:"EMPATHY_OVERRIDE_THRESHOLD" envDefault:"0.6"`

	AIProvider string `env:"AI_PROVIDER" envDefault:"pollinations"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New loads .env (if present) and parses the environment into a Config.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
