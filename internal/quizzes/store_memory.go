package quizzes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartquiz-backend/quiz/model"
)

// MemoryStore keeps quizzes in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]Quiz
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: make(map[string]Quiz)}
}

func (s *MemoryStore) Create(ctx context.Context, quiz Quiz) (Quiz, error) {
	if err := ctx.Err(); err != nil {
		return Quiz{}, err
	}
	quiz.ID = uuid.NewString()
	quiz.QuestionCount = len(quiz.Questions)
	quiz.CreatedAt = time.Now().UTC()
	// Detach from the caller's slice so later mutations cannot reach the
	// stored record.
	quiz.Questions = copyQuestions(quiz.Questions)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, quizID string) (Quiz, error) {
	if err := ctx.Err(); err != nil {
		return Quiz{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	quiz.Questions = copyQuestions(quiz.Questions)
	return quiz, nil
}

// ListByUser returns the user's quizzes, newest first.
func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	quizzes := make([]Quiz, 0)
	for _, quiz := range s.quizzes {
		if quiz.UserID == userID {
			quiz.Questions = copyQuestions(quiz.Questions)
			quizzes = append(quizzes, quiz)
		}
	}
	s.mu.RUnlock()

	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

func (s *MemoryStore) Delete(ctx context.Context, quizID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return false, nil
	}
	delete(s.quizzes, quizID)
	return true, nil
}

func copyQuestions(questions []model.Question) []model.Question {
	if questions == nil {
		return nil
	}
	out := make([]model.Question, len(questions))
	copy(out, questions)
	for i := range out {
		if out[i].Options != nil {
			options := make([]string, len(out[i].Options))
			copy(options, out[i].Options)
			out[i].Options = options
		}
	}
	return out
}
