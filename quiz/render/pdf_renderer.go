package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"smartquiz-backend/quiz/model"
)

// ErrRenderFailed is returned when PDF construction fails.
var ErrRenderFailed = errors.New("pdf render failed")

// QuizData carries everything the renderer needs for one document.
type QuizData struct {
	Title      string
	SourceFile string
	Questions  []model.Question
	CreatedAt  time.Time
}

const (
	pageMargin = 50.0
	// pageBreakY is the vertical threshold on a 792pt Letter page past which a
	// new question block starts on a fresh page.
	pageBreakY = 650.0
)

var instructionLines = []string{
	"• Choose the best answer for each question",
	"• Only one answer is correct per question",
	"• Mark your answers clearly",
}

// QuizPDF renders a quiz into a paginated PDF: header, instructions, numbered
// questions with lettered options, then an answer key on its own page.
// Option order is preserved so the key letters stay consistent with the
// question pages.
func QuizPDF(data QuizData) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCreationDate(data.CreatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 28, tr("Quiz: "+data.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 16, tr("Source: "+data.SourceFile), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 16, tr("Generated: "+data.CreatedAt.Format("January 2, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(12)

	// Instructions
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 18, "Instructions:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range instructionLines {
		pdf.CellFormat(0, 16, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(12)

	// Questions
	for i, q := range data.Questions {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 18, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", 12)
		for j, opt := range q.Options {
			pdf.MultiCell(0, 16, tr(fmt.Sprintf("   %s. %s", optionLetter(j), opt)), "", "L", false)
		}
		pdf.Ln(12)
	}

	// Answer key always starts on a fresh page.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 22, "Answer Key", "", 1, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	for i, q := range data.Questions {
		pdf.CellFormat(0, 16, tr(answerKeyLine(i, q)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func optionLetter(idx int) string {
	return string(rune('A' + idx))
}

// answerKeyLine derives the key letter from the answer's position within the
// options. An answer that matches no option renders as "?" rather than an
// out-of-range letter.
func answerKeyLine(idx int, q model.Question) string {
	letter := "?"
	if pos := q.AnswerIndex(); pos >= 0 {
		letter = optionLetter(pos)
	}
	return fmt.Sprintf("%d. %s - %s", idx+1, letter, q.Answer)
}
