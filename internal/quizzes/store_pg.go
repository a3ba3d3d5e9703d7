package quizzes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smartquiz-backend/quiz/model"
)

// PGStore persists quizzes in Postgres with questions as a jsonb column.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) Create(ctx context.Context, quiz Quiz) (Quiz, error) {
	quiz.ID = uuid.NewString()
	quiz.QuestionCount = len(quiz.Questions)
	quiz.CreatedAt = time.Now().UTC()

	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return Quiz{}, fmt.Errorf("marshal questions: %w", err)
	}

	const query = `
INSERT INTO quizzes (id, user_id, title, source_file, questions, question_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = s.DB.ExecContext(ctx, query,
		quiz.ID,
		quiz.UserID,
		quiz.Title,
		quiz.SourceFile,
		questions,
		quiz.QuestionCount,
		quiz.CreatedAt,
	)
	if err != nil {
		return Quiz{}, err
	}
	return quiz, nil
}

func (s *PGStore) GetByID(ctx context.Context, quizID string) (Quiz, error) {
	const query = `
SELECT id, user_id, title, source_file, questions, question_count, created_at
FROM quizzes
WHERE id = $1
LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, quizID)

	quiz, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	return quiz, nil
}

func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Quiz, error) {
	const query = `
SELECT id, user_id, title, source_file, questions, question_count, created_at
FROM quizzes
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := make([]Quiz, 0)
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, quizID string) (bool, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var quiz Quiz
	var questions []byte
	err := row.Scan(
		&quiz.ID,
		&quiz.UserID,
		&quiz.Title,
		&quiz.SourceFile,
		&questions,
		&quiz.QuestionCount,
		&quiz.CreatedAt,
	)
	if err != nil {
		return Quiz{}, err
	}
	quiz.Questions = []model.Question{}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
			return Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
		}
	}
	return quiz, nil
}
