package readme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDescriptionFirstParagraph(t *testing.T) {
	body := []byte(`# pscreen

Manages GNU screen session profiles.

More detail nobody reads.
`)
	if got := Description(body); got != "Manages GNU screen session profiles." {
		t.Errorf("unexpected description: %q", got)
	}
}

func TestDescriptionCollapsesLineBreaks(t *testing.T) {
	body := []byte("# Title\n\nFirst line\ncontinues here.\n")
	if got := Description(body); got != "First line continues here." {
		t.Errorf("expected soft breaks collapsed, got %q", got)
	}
}

func TestDescriptionStripsInlineMarkup(t *testing.T) {
	body := []byte("Profiles for *GNU screen* sessions.\n")
	if got := Description(body); got != "Profiles for GNU screen sessions." {
		t.Errorf("expected markup stripped, got %q", got)
	}
}

func TestDescriptionEmptyBody(t *testing.T) {
	if got := Description(nil); got != "" {
		t.Errorf("expected empty description, got %q", got)
	}
	if got := Description([]byte("# Heading only\n")); got != "" {
		t.Errorf("expected empty description for heading-only body, got %q", got)
	}
}

func TestDescriptionFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	if err := os.WriteFile(path, []byte("A profile manager.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := DescriptionFromFile(path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if got != "A profile manager." {
		t.Errorf("unexpected description: %q", got)
	}

	if _, err := DescriptionFromFile(filepath.Join(dir, "missing.md")); err == nil {
		t.Error("expected error for missing readme")
	}
}
