package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider. Calls flow through retry,
// then logging (when log is non-nil), then the SDK client, so every
// attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, log RequestLog) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case Anthropic:
		base, err = newAnthropic(cfg)
	case OpenAI, OpenRouter:
		base, err = newOpenAI(cfg)
	case Gemini:
		base, err = newGemini(ctx, cfg)
	case Mock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if log != nil {
		base = WithLogging(base, cfg.Provider, log)
	}
	return WithRetry(base, cfg.Retry, cfg.Timeout), nil
}
