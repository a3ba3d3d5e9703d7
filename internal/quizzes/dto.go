package quizzes

import (
	"time"

	"smartquiz-backend/quiz/model"
)

// QuizResponse is the outward-facing representation of a stored quiz.
type QuizResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	SourceFile    string           `json:"sourceFile"`
	Questions     []model.Question `json:"questions"`
	QuestionCount int              `json:"questionCount"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func toResponse(quiz Quiz) QuizResponse {
	return QuizResponse{
		ID:            quiz.ID,
		Title:         quiz.Title,
		SourceFile:    quiz.SourceFile,
		Questions:     quiz.Questions,
		QuestionCount: quiz.QuestionCount,
		CreatedAt:     quiz.CreatedAt,
	}
}

// GeneratedResponse is returned by the generate endpoint before a quiz is
// saved, hence no ID.
type GeneratedResponse struct {
	Title         string           `json:"title"`
	SourceFile    string           `json:"sourceFile"`
	Questions     []model.Question `json:"questions"`
	QuestionCount int              `json:"questionCount"`
}

type saveRequest struct {
	Title      string           `json:"title"`
	SourceFile string           `json:"sourceFile"`
	Questions  []model.Question `json:"questions"`
}

type exportRequest struct {
	Title      string           `json:"title"`
	SourceFile string           `json:"sourceFile"`
	Questions  []model.Question `json:"questions"`
}
