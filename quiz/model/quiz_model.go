package model

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the fixed number of options per multiple-choice question.
const OptionCount = 4

// Question represents one multiple-choice item. Answer holds the full text of
// the correct option, not its letter.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Validate enforces the structural contract for a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question is required")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("options must have exactly %d entries, got %d", OptionCount, len(q.Options))
	}
	if strings.TrimSpace(q.Answer) == "" {
		return errors.New("answer is required")
	}
	return nil
}

// AnswerIndex returns the position of Answer within Options using exact,
// case-sensitive matching, or -1 when the answer is not among the options.
func (q Question) AnswerIndex() int {
	for i, opt := range q.Options {
		if opt == q.Answer {
			return i
		}
	}
	return -1
}

// ValidateAll checks every question in order and reports the first failure.
func ValidateAll(questions []Question) error {
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
