package quizzes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"smartquiz-backend/internal/extract"
	"smartquiz-backend/internal/quizgen"
	"smartquiz-backend/internal/shared/storage/object"
	"smartquiz-backend/internal/shared/telemetry"
	"smartquiz-backend/internal/shared/util"
	"smartquiz-backend/quiz/model"
	"smartquiz-backend/quiz/render"
)

var ErrInvalidInput = errors.New("invalid input")

// allowedMIME is the upload whitelist. Browsers send the official types for
// the three supported formats; anything else is rejected up front.
var allowedMIME = map[string]bool{
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/pdf": true,
}

// Service runs the document-to-quiz pipeline and owns quiz persistence.
type Service struct {
	Store       Store
	Generator   *quizgen.Generator
	ExtractOpts extract.Options

	// Archive receives a copy of exported PDFs when configured. Nil disables
	// archiving.
	Archive object.ObjectStore
}

// GenerateFromUpload spools the upload to a temp file, extracts its text and
// asks the generator for count questions. The returned quiz is not persisted;
// its ID is empty until Save is called.
func (s *Service) GenerateFromUpload(ctx context.Context, userID, fileName, contentType string, r io.Reader, count int) (Quiz, error) {
	if strings.TrimSpace(fileName) == "" {
		return Quiz{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	// Unknown or generic content types fall through to the extension check.
	if contentType != "" && contentType != "application/octet-stream" && !allowedMIME[contentType] {
		return Quiz{}, fmt.Errorf("%w: content type %q", extract.ErrUnsupportedFormat, contentType)
	}
	if _, ok := extract.Kind(fileName); !ok {
		return Quiz{}, fmt.Errorf("%w: %s", extract.ErrUnsupportedFormat, fileName)
	}

	tmp, err := os.CreateTemp("", "smartquiz-upload-*")
	if err != nil {
		return Quiz{}, fmt.Errorf("create temp file: %w", err)
	}
	// Single cleanup guard covering every exit path below.
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			telemetry.Error("upload.cleanup_failed", map[string]any{"error": err.Error()})
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return Quiz{}, fmt.Errorf("spool upload: %w", err)
	}
	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return Quiz{}, fmt.Errorf("read upload: %w", err)
	}

	text, err := extract.Text(ctx, data, fileName, s.ExtractOpts)
	if err != nil {
		return Quiz{}, err
	}

	questions, err := s.Generator.Generate(ctx, text, count)
	if err != nil {
		return Quiz{}, err
	}

	return Quiz{
		UserID:        userID,
		Title:         util.BaseName(fileName),
		SourceFile:    fileName,
		Questions:     questions,
		QuestionCount: len(questions),
	}, nil
}

// Save validates question shapes and persists the quiz for the user.
func (s *Service) Save(ctx context.Context, userID string, quiz Quiz) (Quiz, error) {
	quiz.UserID = userID
	quiz.Title = strings.TrimSpace(quiz.Title)
	if quiz.Title == "" {
		return Quiz{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := model.ValidateAll(quiz.Questions); err != nil {
		return Quiz{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.Store.Create(ctx, quiz)
}

// Get returns the quiz when it exists and belongs to the user.
func (s *Service) Get(ctx context.Context, userID, quizID string) (Quiz, error) {
	quiz, err := s.Store.GetByID(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if quiz.UserID != userID {
		return Quiz{}, ErrNotFound
	}
	return quiz, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Quiz, error) {
	return s.Store.ListByUser(ctx, userID)
}

// Delete removes the user's quiz, reporting ErrNotFound when it does not
// exist or belongs to someone else.
func (s *Service) Delete(ctx context.Context, userID, quizID string) error {
	if _, err := s.Get(ctx, userID, quizID); err != nil {
		return err
	}
	existed, err := s.Store.Delete(ctx, quizID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return nil
}

// Export renders the quiz to PDF bytes. When an archive store is configured a
// copy is kept under the owner's namespace; archive failures are logged, not
// surfaced, since the caller already has the bytes.
func (s *Service) Export(ctx context.Context, quiz Quiz) ([]byte, error) {
	createdAt := quiz.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	pdf, err := render.QuizPDF(render.QuizData{
		Title:      quiz.Title,
		SourceFile: quiz.SourceFile,
		Questions:  quiz.Questions,
		CreatedAt:  createdAt,
	})
	if err != nil {
		return nil, err
	}

	if s.Archive != nil && quiz.ID != "" {
		key, _, _, err := s.Archive.Save(ctx, quiz.UserID, quiz.Title+".pdf", bytes.NewReader(pdf))
		if err != nil {
			telemetry.Error("export.archive_failed", map[string]any{
				"quiz_id": quiz.ID,
				"error":   err.Error(),
			})
		} else {
			telemetry.Info("export.archived", map[string]any{
				"quiz_id": quiz.ID,
				"key":     key,
			})
		}
	}
	return pdf, nil
}
