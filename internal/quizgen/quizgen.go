// Package quizgen turns extracted document text into validated
// multiple-choice questions via an LLM completion client.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"smartquiz-backend/quiz/model"
)

var (
	// ErrGenerationFailed wraps every failure mode of Generate so callers can
	// map the whole taxonomy to a single HTTP status.
	ErrGenerationFailed = errors.New("quiz generation failed")

	// ErrMalformedResponse means the completion was not the JSON envelope the
	// prompt demands.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrInvalidQuestionShape means the envelope parsed but one of the
	// questions violated the structural contract.
	ErrInvalidQuestionShape = errors.New("invalid question shape")
)

const (
	// MinQuestions and MaxQuestions bound the requested count. Out-of-range
	// requests are clamped, not rejected.
	MinQuestions = 1
	MaxQuestions = 20

	// DefaultQuestions is used when the caller does not specify a count.
	DefaultQuestions = 5
)

// Client produces a raw completion for a system/user prompt pair.
// Implementations must honor ctx cancellation.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Generator drives a Client and validates its output.
type Generator struct {
	client Client
}

func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// ClampCount normalizes a requested question count into [MinQuestions,
// MaxQuestions], substituting DefaultQuestions for zero.
func ClampCount(count int) int {
	if count == 0 {
		return DefaultQuestions
	}
	if count < MinQuestions {
		return MinQuestions
	}
	if count > MaxQuestions {
		return MaxQuestions
	}
	return count
}

type questionEnvelope struct {
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Generate asks the client for count questions derived from text and validates
// the response. The returned error always wraps ErrGenerationFailed; the more
// specific sentinels are reachable via errors.Is as well.
func (g *Generator) Generate(ctx context.Context, text string, count int) ([]model.Question, error) {
	count = ClampCount(count)

	raw, err := g.client.Complete(ctx, systemPrompt, buildPrompt(text, count))
	if err != nil {
		return nil, fmt.Errorf("%w: completion: %v", ErrGenerationFailed, err)
	}

	var envelope questionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrGenerationFailed, ErrMalformedResponse, err)
	}
	if len(envelope.Questions) == 0 {
		return nil, fmt.Errorf("%w: %w: response contains no questions", ErrGenerationFailed, ErrMalformedResponse)
	}

	questions := make([]model.Question, 0, len(envelope.Questions))
	for i, rq := range envelope.Questions {
		q := model.Question{
			Question: strings.TrimSpace(rq.Question),
			Options:  rq.Options,
			Answer:   rq.Answer,
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w: question %d: %v", ErrGenerationFailed, ErrInvalidQuestionShape, i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
