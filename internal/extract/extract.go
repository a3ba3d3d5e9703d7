package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"smartquiz-backend/internal/shared/util"
)

// FileKind identifies a supported document category.
type FileKind string

const (
	KindSlides FileKind = "pptx"
	KindWord   FileKind = "docx"
	KindPDF    FileKind = "pdf"
)

var (
	// ErrUnsupportedFormat is returned when the filename extension is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrExtractionFailed is returned when a decoder ran but produced insufficient text.
	ErrExtractionFailed = errors.New("could not extract sufficient text")
)

const (
	// minTextLen is the minimum extracted length for a usable document.
	minTextLen = 10
	// slideScanMin is the threshold below which the slide decoder falls back
	// to filename-derived placeholder text.
	slideScanMin = 50
)

// Options controls decoder policy.
type Options struct {
	// SlideFallback enables the placeholder synthesis for sparse slide decks.
	// When disabled, sparse decks fail with ErrExtractionFailed instead.
	SlideFallback bool
}

// DefaultOptions returns the production policy.
func DefaultOptions() Options {
	return Options{SlideFallback: true}
}

// Kind determines the file kind from the filename extension, case-insensitively.
func Kind(fileName string) (FileKind, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pptx":
		return KindSlides, true
	case ".docx":
		return KindWord, true
	case ".pdf":
		return KindPDF, true
	default:
		return "", false
	}
}

// Text extracts plain text from an in-memory document payload. The file kind is
// determined solely by the filename extension, not by content sniffing.
func Text(ctx context.Context, data []byte, fileName string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kind, ok := Kind(fileName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(fileName))
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindSlides:
		text, err = extractSlides(data, fileName, opts)
	case KindWord:
		text, err = extractDOCX(data)
	case KindPDF:
		text, err = extractPDF(data)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w: %v", kind, ErrExtractionFailed, err)
	}

	text = strings.TrimSpace(text)
	if len(text) < minTextLen {
		return "", fmt.Errorf("extract %s: %w", kind, ErrExtractionFailed)
	}
	return text, nil
}

// slideTextRun matches the text runs of the packaged slide XML. The slide
// decoder deliberately scans raw bytes instead of parsing the package
// structure; sparse results fall back to a synthesized placeholder.
var slideTextRun = regexp.MustCompile(`<a:t[^>]*>([^<]+)</a:t>`)

func extractSlides(data []byte, fileName string, opts Options) (string, error) {
	matches := slideTextRun.FindAllSubmatch(data, -1)

	fragments := make([]string, 0, len(matches))
	for _, m := range matches {
		if frag := strings.TrimSpace(string(m[1])); frag != "" {
			fragments = append(fragments, frag)
		}
	}
	text := strings.Join(fragments, " ")

	if len(text) < slideScanMin {
		if !opts.SlideFallback {
			return "", errors.New("no slide text found")
		}
		base := util.BaseName(fileName)
		text = fmt.Sprintf("PowerPoint presentation: %s. This presentation covers important topics and concepts that should be understood through multiple choice questions.", base)
	}

	return text, nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
