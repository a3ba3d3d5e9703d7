package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName("lecture notes.pdf")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "lecture notes.pdf" {
		t.Fatalf("unexpected result: %s", got)
	}

	got, err = SanitizeFileName("a/b\\c.docx")
	if err != nil {
		t.Fatalf("sanitize separators: %v", err)
	}
	if got != "a_b_c.docx" {
		t.Fatalf("expected separators replaced, got %s", got)
	}

	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatal("expected empty name rejection")
	}
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"biology-101.pptx":       "biology-101",
		"dir/sub/report.v2.docx": "report.v2",
		"noext":                  "noext",
		".hidden":                ".hidden",
	}
	for in, want := range cases {
		if got := BaseName(in); got != want {
			t.Fatalf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashUserKey(t *testing.T) {
	id := "google:12345"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}
