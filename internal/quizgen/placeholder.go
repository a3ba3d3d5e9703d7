package quizgen

import (
	"context"
	"errors"
)

// PlaceholderClient stands in when no LLM provider is configured, so the rest
// of the API stays usable in dev environments.
type PlaceholderClient struct{}

func (PlaceholderClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	return "", errors.New("llm provider not configured")
}
