package quizzes

import (
	"time"

	"smartquiz-backend/quiz/model"
)

type Quiz struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Title         string           `json:"title"`
	SourceFile    string           `json:"sourceFile"`
	Questions     []model.Question `json:"questions"`
	QuestionCount int              `json:"questionCount"`
	CreatedAt     time.Time        `json:"createdAt"`
}
