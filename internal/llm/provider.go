package llm

import (
	"context"
	"fmt"

	"talent-match/internal/config"
)

// New builds the configured Completer wrapped in the outbound rate limiter.
// The returned close func releases provider resources.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, func() error, error) {
	var (
		base    Completer
		closeFn = func() error { return nil }
	)

	switch cfg.Provider {
	case "", "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini client: %w", err)
		}
		base = c
	case "vertexai":
		c, err := NewVertexClient(ctx, cfg.Project, cfg.Location, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, nil, fmt.Errorf("create vertex ai client: %w", err)
		}
		base = c
		closeFn = c.Close
	default:
		return nil, nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}

	return NewRateLimited(base, cfg.RateLimit, cfg.RateBurst), closeFn, nil
}
