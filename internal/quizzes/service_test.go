package quizzes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartquiz-backend/internal/extract"
	"smartquiz-backend/internal/quizgen"
	localstore "smartquiz-backend/internal/shared/storage/object/local"
	"smartquiz-backend/internal/shared/util"
	"smartquiz-backend/quiz/model"
)

type stubLLM struct {
	count int
	err   error
}

func (s *stubLLM) Complete(_ context.Context, _, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.count++
	var b strings.Builder
	b.WriteString(`{"questions":[`)
	for i := 0; i < 3; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"question":"Q%d?","options":["a","b","c","d"],"answer":"b"}`, i+1)
	}
	b.WriteString(`]}`)
	return b.String(), nil
}

func newTestService(llm quizgen.Client) *Service {
	return &Service{
		Store:       NewMemoryStore(),
		Generator:   quizgen.NewGenerator(llm),
		ExtractOpts: extract.DefaultOptions(),
	}
}

func docxUpload(t *testing.T, text string) *bytes.Reader {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	fmt.Fprintf(w, `<?xml version="1.0"?><w:document><w:body><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:body></w:document>`, text)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestGenerateFromUploadDocx(t *testing.T) {
	svc := newTestService(&stubLLM{})

	upload := docxUpload(t, "Photosynthesis converts light energy into chemical energy.")
	quiz, err := svc.GenerateFromUpload(context.Background(), "user-1", "lecture-notes.docx", "", upload, 3)
	if err != nil {
		t.Fatalf("GenerateFromUpload: %v", err)
	}

	if quiz.ID != "" {
		t.Fatalf("generated quiz must not be persisted, got id %s", quiz.ID)
	}
	if quiz.Title != "lecture-notes" {
		t.Fatalf("expected title lecture-notes, got %s", quiz.Title)
	}
	if quiz.SourceFile != "lecture-notes.docx" {
		t.Fatalf("expected sourceFile lecture-notes.docx, got %s", quiz.SourceFile)
	}
	if quiz.QuestionCount != 3 || len(quiz.Questions) != 3 {
		t.Fatalf("expected 3 questions, got count=%d len=%d", quiz.QuestionCount, len(quiz.Questions))
	}
}

func TestGenerateFromUploadRejectsUnsupported(t *testing.T) {
	svc := newTestService(&stubLLM{})

	_, err := svc.GenerateFromUpload(context.Background(), "user-1", "notes.txt", "", strings.NewReader("plain text"), 3)
	if !errors.Is(err, extract.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGenerateFromUploadRejectsBadContentType(t *testing.T) {
	svc := newTestService(&stubLLM{})

	_, err := svc.GenerateFromUpload(context.Background(), "user-1", "notes.pdf", "text/html", strings.NewReader("x"), 3)
	if !errors.Is(err, extract.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestGenerateFromUploadSparseSlidesFallBack(t *testing.T) {
	// A pptx with almost no text runs still produces a quiz through the
	// filename placeholder.
	svc := newTestService(&stubLLM{})

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	fmt.Fprint(w, `<p:sld><a:t>Hi</a:t></p:sld>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	quiz, err := svc.GenerateFromUpload(context.Background(), "user-1", "deck.pptx", "", bytes.NewReader(buf.Bytes()), 3)
	if err != nil {
		t.Fatalf("GenerateFromUpload: %v", err)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(quiz.Questions))
	}
}

func TestGenerateFromUploadRemovesSpooledFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	assertEmpty := func(when string) {
		t.Helper()
		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatalf("read temp dir: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no spooled files %s, found %d", when, len(entries))
		}
	}

	// Successful generation.
	svc := newTestService(&stubLLM{})
	upload := docxUpload(t, "Enough content to pass the extraction threshold easily.")
	if _, err := svc.GenerateFromUpload(context.Background(), "user-1", "notes.docx", "", upload, 3); err != nil {
		t.Fatalf("GenerateFromUpload: %v", err)
	}
	assertEmpty("after success")

	// Extraction failure: sparse slides with the fallback disabled.
	strict := newTestService(&stubLLM{})
	strict.ExtractOpts = extract.Options{SlideFallback: false}
	_, err := strict.GenerateFromUpload(context.Background(), "user-1", "deck.pptx", "", strings.NewReader("no slide text here"), 3)
	if !errors.Is(err, extract.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	assertEmpty("after extraction failure")

	// Generation failure.
	failing := newTestService(&stubLLM{err: errors.New("boom")})
	upload = docxUpload(t, "Enough content to pass the extraction threshold easily.")
	_, err = failing.GenerateFromUpload(context.Background(), "user-1", "notes.docx", "", upload, 3)
	if !errors.Is(err, quizgen.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	assertEmpty("after generation failure")
}

func TestGenerateFromUploadSurfacesGenerationFailure(t *testing.T) {
	svc := newTestService(&stubLLM{err: errors.New("boom")})

	upload := docxUpload(t, "Enough content to pass the extraction threshold easily.")
	_, err := svc.GenerateFromUpload(context.Background(), "user-1", "notes.docx", "", upload, 3)
	if !errors.Is(err, quizgen.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestSaveValidatesQuestions(t *testing.T) {
	svc := newTestService(&stubLLM{})

	_, err := svc.Save(context.Background(), "user-1", Quiz{
		Title: "bad",
		Questions: []model.Question{
			{Question: "Q?", Options: []string{"a", "b"}, Answer: "a"},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	saved, err := svc.Save(context.Background(), "user-1", Quiz{
		Title: "good",
		Questions: []model.Question{
			{Question: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || saved.UserID != "user-1" {
		t.Fatalf("expected persisted quiz owned by user-1, got %+v", saved)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc := newTestService(&stubLLM{})

	saved, err := svc.Save(context.Background(), "user-1", Quiz{
		Title: "mine",
		Questions: []model.Question{
			{Question: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-2", saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign quiz, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-2", saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign quiz, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestExportArchivesCopyUnderUserKey(t *testing.T) {
	archiveDir := t.TempDir()

	svc := newTestService(&stubLLM{})
	svc.Archive = localstore.New(archiveDir)

	saved, err := svc.Save(context.Background(), "user-1", Quiz{
		Title: "chemistry-quiz",
		Questions: []model.Question{
			{Question: "Q?", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	pdf, err := svc.Export(context.Background(), saved)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	userDir := filepath.Join(archiveDir, util.HashUserKey("user-1"))
	entries, err := os.ReadDir(userDir)
	if err != nil {
		t.Fatalf("read archive dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one archived file, got %d", len(entries))
	}
	if !strings.HasSuffix(entries[0].Name(), "chemistry-quiz.pdf") {
		t.Fatalf("unexpected archived file name %s", entries[0].Name())
	}

	archived, err := os.ReadFile(filepath.Join(userDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read archived file: %v", err)
	}
	if !bytes.Equal(archived, pdf) {
		t.Fatalf("archived copy differs from exported bytes")
	}
}

func TestExportWithoutArchiveWritesNothing(t *testing.T) {
	svc := newTestService(&stubLLM{})

	if _, err := svc.Export(context.Background(), sampleQuiz("user-1")); err != nil {
		t.Fatalf("Export: %v", err)
	}
}

func TestExportRendersPDF(t *testing.T) {
	svc := newTestService(&stubLLM{})

	pdf, err := svc.Export(context.Background(), Quiz{
		Title: "empty",
		// Zero questions still produce a document with header and answer key.
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", pdf[:8])
	}
}
