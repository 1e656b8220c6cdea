// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDB              = "QUIZZY_DB"
	EnvUser            = "QUIZZY_USER"
	EnvSessionLength   = "QUIZZY_SESSION_LENGTH"
	EnvTimeLimit       = "QUIZZY_TIME_LIMIT"
	EnvRecommendations = "QUIZZY_RECOMMENDATIONS"
	EnvLogLevel        = "QUIZZY_LOG_LEVEL"
	EnvEnvFile         = "QUIZZY_ENV_FILE"
)

// Defaults.
const (
	DefaultUser            = "local"
	DefaultSessionLength   = 10
	DefaultRecommendations = 2
	DefaultLogLevel        = "warn"
)

// Config holds everything the commands need outside of LLM settings.
type Config struct {
	DBPath          string
	UserID          string
	SessionLength   int
	TimeLimit       time.Duration
	Recommendations int
	LogLevel        slog.Level
}

// Load reads the .env file named by QUIZZY_ENV_FILE (default ".env" in the
// working directory) if present, then builds a Config from the environment.
// Variables already set in the process win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv(EnvEnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Invalid values are errors rather
// than silently falling back.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		UserID:          DefaultUser,
		SessionLength:   DefaultSessionLength,
		Recommendations: DefaultRecommendations,
		LogLevel:        slog.LevelWarn,
	}

	dbPath, err := dbPathFromEnv(getenv)
	if err != nil {
		return nil, err
	}
	cfg.DBPath = dbPath

	if v := strings.TrimSpace(getenv(EnvUser)); v != "" {
		cfg.UserID = v
	}

	if v := getenv(EnvSessionLength); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: want a positive integer, got %q", EnvSessionLength, v)
		}
		cfg.SessionLength = n
	}

	if v := getenv(EnvTimeLimit); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%s: want a non-negative duration like 5m, got %q", EnvTimeLimit, v)
		}
		cfg.TimeLimit = d
	}

	if v := getenv(EnvRecommendations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: want a non-negative integer, got %q", EnvRecommendations, v)
		}
		cfg.Recommendations = n
	}

	level := getenv(EnvLogLevel)
	if level == "" {
		level = DefaultLogLevel
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	return cfg, nil
}

// dbPathFromEnv resolves the database file path in priority order:
// 1. QUIZZY_DB
// 2. $XDG_DATA_HOME/quizzy/quizzy.db
// 3. ~/.local/share/quizzy/quizzy.db
func dbPathFromEnv(getenv func(string) string) (string, error) {
	if p := getenv(EnvDB); p != "" {
		return p, nil
	}

	dataHome := getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quizzy", "quizzy.db"), nil
}

// SetupLogging installs a text slog handler on w at the configured level
// and returns it.
func (c *Config) SetupLogging(w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
	slog.SetDefault(logger)
	return logger
}
