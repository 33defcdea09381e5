package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrCompletion marks a failed call to the completion backend. The upstream
// error text is kept in the wrapped message.
var ErrCompletion = errors.New("completion failed")

// Completer turns a rendered prompt into raw model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func completionError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCompletion, provider, err)
}
