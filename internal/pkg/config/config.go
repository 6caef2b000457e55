package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	// DefaultBaseURL is the production backend, used when neither the
	// environment nor the dotenv file says otherwise.
	DefaultBaseURL = "https://api.tasklio.app"

	// DotenvFile is the local override file. Values in it never shadow
	// variables already present in the environment, which yields the
	// env → file → default precedence.
	DotenvFile = ".tasklio.env"
)

type Config struct {
	BaseURL   string        `env:"TASKLIO_BASE_URL" validate:"omitempty,url"`
	Timeout   time.Duration `env:"TASKLIO_HTTP_TIMEOUT, default=30s"`
	LogLevel  string        `env:"TASKLIO_LOG_LEVEL,   default=info"`
	LogPretty bool          `env:"TASKLIO_LOG_PRETTY,  default=false"`
	TokenFile string        `env:"TASKLIO_TOKEN_FILE"`
}

// Load resolves the client configuration: dotenv file first (without
// overriding the environment), then environment variables via go-envconfig,
// then hardcoded defaults for anything still unset.
func Load(ctx context.Context) (*Config, error) {
	// Missing dotenv file is the normal case.
	_ = godotenv.Load(DotenvFile)

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultTokenFile()
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// defaultTokenFile places the persisted session under the user config
// directory, falling back to the working directory when it is unavailable.
func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".tasklio-session.json"
	}
	return filepath.Join(dir, "tasklio", "session.json")
}
