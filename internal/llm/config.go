package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider names accepted in QUIZZY_LLM_PROVIDER.
const (
	Anthropic  = "anthropic"
	OpenAI     = "openai"
	Gemini     = "gemini"
	OpenRouter = "openrouter"
	Mock       = "mock"

	// Disabled turns question generation off even when keys are present.
	Disabled = "none"
)

const (
	EnvProvider = "QUIZZY_LLM_PROVIDER"
	EnvTimeout  = "QUIZZY_LLM_TIMEOUT"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects one provider and its credentials.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig is the backoff policy for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultModels = map[string]string{
	Anthropic:  "claude-haiku",
	OpenAI:     "gpt-4o-mini",
	Gemini:     "gemini-flash",
	OpenRouter: "google/gemini-2.5-flash",
	Mock:       "mock",
}

// DefaultConfig returns the settings for provider with its default model.
func DefaultConfig(provider string) Config {
	return Config{
		Provider: provider,
		Model:    defaultModels[provider],
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// envPrefix is QUIZZY_<PROVIDER>_, e.g. QUIZZY_OPENAI_.
func envPrefix(provider string) string {
	return "QUIZZY_" + strings.ToUpper(provider) + "_"
}

// discoveryOrder lists providers probed when QUIZZY_LLM_PROVIDER is unset,
// with the vendor's own key variable as a fallback.
var discoveryOrder = []struct {
	provider string
	key      string
}{
	{Gemini, "GEMINI_API_KEY"},
	{OpenAI, "OPENAI_API_KEY"},
	{Anthropic, "ANTHROPIC_API_KEY"},
	{OpenRouter, "OPENROUTER_API_KEY"},
}

// ConfigFromEnv resolves the provider configuration. An explicit
// QUIZZY_LLM_PROVIDER wins; otherwise the first provider with a key set
// (QUIZZY_<P>_API_KEY or the vendor variable) is used. ok is false when
// no provider is configured or generation is disabled.
func ConfigFromEnv(getenv func(string) string) (cfg Config, ok bool, err error) {
	name := strings.ToLower(strings.TrimSpace(getenv(EnvProvider)))
	switch name {
	case Disabled:
		return Config{}, false, nil
	case "":
		for _, d := range discoveryOrder {
			if getenv(envPrefix(d.provider)+"API_KEY") != "" || getenv(d.key) != "" {
				name = d.provider
				break
			}
		}
		if name == "" {
			return Config{}, false, nil
		}
	}
	if _, known := defaultModels[name]; !known {
		return Config{}, false, fmt.Errorf("%s: unknown provider %q", EnvProvider, name)
	}

	cfg = DefaultConfig(name)
	prefix := envPrefix(name)
	cfg.APIKey = getenv(prefix + "API_KEY")
	if cfg.APIKey == "" {
		for _, d := range discoveryOrder {
			if d.provider == name {
				cfg.APIKey = getenv(d.key)
			}
		}
	}
	if m := getenv(prefix + "MODEL"); m != "" {
		cfg.Model = m
	}
	if u := getenv(prefix + "BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if v := getenv(EnvTimeout); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil || d <= 0 {
			return Config{}, false, fmt.Errorf("%s: invalid duration %q", EnvTimeout, v)
		}
		cfg.Timeout = d
	}
	return cfg, true, cfg.Validate()
}

// Validate reports a missing key or an unknown provider.
func (c Config) Validate() error {
	if _, known := defaultModels[c.Provider]; !known {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Provider != Mock && c.APIKey == "" {
		return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	return nil
}

// modelAliases maps short names to provider model ids. Anything else is
// sent as given.
var modelAliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"gemini-flash":  "gemini-2.5-flash",
	"gemini-pro":    "gemini-2.5-pro",
}

func resolveModel(name string) string {
	if id, ok := modelAliases[name]; ok {
		return id
	}
	return name
}
