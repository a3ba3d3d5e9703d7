package quizzes

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("quiz not found")

// Store persists quizzes. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, quiz Quiz) (Quiz, error)
	GetByID(ctx context.Context, quizID string) (Quiz, error)
	ListByUser(ctx context.Context, userID string) ([]Quiz, error)
	// Delete reports whether a quiz was actually removed.
	Delete(ctx context.Context, quizID string) (bool, error)
}
