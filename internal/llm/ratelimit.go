package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited spaces out calls to the wrapped Completer. Waiting honours the
// caller's context; a cancelled wait is reported as a completion failure.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited returns next unchanged when rps is not positive.
func NewRateLimited(next Completer, rps float64, burst int) Completer {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", completionError("rate limiter", err)
	}
	return r.next.Complete(ctx, prompt)
}
