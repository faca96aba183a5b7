package bot

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when BOT_TOKEN is not set.
var ErrMissingToken = errors.New("BOT_TOKEN is not set")

// Config is the bot's environment configuration.
type Config struct {
	Token       string        `env:"BOT_TOKEN"`
	APIURL      string        `env:"BOT_API_URL" envDefault:"https://api.telegram.org"`
	AdminIDs    []int64       `env:"ADMIN_IDS" envSeparator:","`
	PollTimeout time.Duration `env:"POLL_TIMEOUT" envDefault:"30s"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MetricsAddr string        `env:"METRICS_ADDR"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads optional .env files and then the process environment.
// Variables already set in the environment win over the files.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse bot environment: %w", err)
	}
	if cfg.Token == "" {
		return Config{}, ErrMissingToken
	}
	if cfg.PollTimeout < 0 {
		return Config{}, fmt.Errorf("POLL_TIMEOUT must not be negative: %s", cfg.PollTimeout)
	}
	return cfg, nil
}

// IsAdmin reports whether userID may use the bot. An empty list allows everyone.
func (c Config) IsAdmin(userID int64) bool {
	return len(c.AdminIDs) == 0 || slices.Contains(c.AdminIDs, userID)
}
