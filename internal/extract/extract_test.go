package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestKindDispatch(t *testing.T) {
	cases := map[string]FileKind{
		"deck.pptx":       KindSlides,
		"DECK.PPTX":       KindSlides,
		"notes.docx":      KindWord,
		"paper.PDF":       KindPDF,
		"dir/lecture.pdf": KindPDF,
	}
	for name, want := range cases {
		got, ok := Kind(name)
		if !ok || got != want {
			t.Fatalf("Kind(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}

	for _, name := range []string{"image.png", "notes.txt", "deck.ppt", "archive.zip", "noext"} {
		if _, ok := Kind(name); ok {
			t.Fatalf("expected %q to be unsupported", name)
		}
	}
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text(context.Background(), []byte("whatever"), "notes.txt", DefaultOptions())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTextSlidesScansTextRuns(t *testing.T) {
	payload := []byte(`<p:sp><a:t>Photosynthesis converts light</a:t></p:sp>` +
		`<p:sp><a:t lang="en-US">into chemical energy stored in glucose molecules</a:t></p:sp>`)

	got, err := Text(context.Background(), payload, "biology.pptx", DefaultOptions())
	if err != nil {
		t.Fatalf("extract slides: %v", err)
	}
	want := "Photosynthesis converts light into chemical energy stored in glucose molecules"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTextSlidesFallbackOnSparseDeck(t *testing.T) {
	payload := []byte("PK\x03\x04 binary noise without slide markup")

	got, err := Text(context.Background(), payload, "chemistry-review.pptx", DefaultOptions())
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if !strings.Contains(got, "chemistry-review") {
		t.Fatalf("expected placeholder to contain base filename, got %q", got)
	}
	if len(got) < 10 {
		t.Fatalf("placeholder below minimum length: %q", got)
	}
}

func TestTextSlidesFallbackDisabled(t *testing.T) {
	payload := []byte("no markup here")

	_, err := Text(context.Background(), payload, "deck.pptx", Options{SlideFallback: false})
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestTextDocx(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?><w:document><w:body>`+
		`<w:p><w:r><w:t>The mitochondria is the powerhouse of the cell.</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	got, err := Text(context.Background(), data, "cells.docx", DefaultOptions())
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(got, "powerhouse of the cell") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestTextDocxTooShort(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hi</w:t></w:r></w:p></w:body></w:document>`)

	_, err := Text(context.Background(), data, "hi.docx", DefaultOptions())
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestTextDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), "notes.docx", DefaultOptions())
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestTextPDFGarbageRejected(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a pdf at all"), "paper.pdf", DefaultOptions())
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
