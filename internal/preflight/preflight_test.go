package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTool creates an executable file named tool inside dir.
func writeTool(t *testing.T, dir, tool string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, tool), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}
}

func TestCheckFindsToolAnywhereOnPath(t *testing.T) {
	empty1 := t.TempDir()
	empty2 := t.TempDir()
	hit := t.TempDir()
	writeTool(t, hit, "screen")

	cases := []struct {
		name string
		path []string
	}{
		{"first", []string{hit, empty1, empty2}},
		{"middle", []string{empty1, hit, empty2}},
		{"last", []string{empty1, empty2, hit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewChecker(tc.path, nil)
			if err := checker.Check("screen"); err != nil {
				t.Fatalf("expected screen found at position %s, got %v", tc.name, err)
			}
		})
	}
}

func TestCheckNotFound(t *testing.T) {
	empty := t.TempDir()

	checker := NewChecker([]string{empty}, nil)
	err := checker.Check("screen")
	if err == nil {
		t.Fatal("expected missing tool error")
	}
	var missing *MissingToolError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingToolError, got %T", err)
	}
	if missing.Tool != "screen" {
		t.Errorf("expected tool name screen, got %s", missing.Tool)
	}
}

func TestCheckEmptySearchPath(t *testing.T) {
	checker := NewChecker(nil, nil)
	err := checker.Check("screen")
	var missing *MissingToolError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingToolError on empty search path, got %v", err)
	}
	if missing.Searched != 0 {
		t.Errorf("expected 0 directories scanned, got %d", missing.Searched)
	}
}

func TestCheckSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "screen"), []byte("not a program"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	checker := NewChecker([]string{dir}, nil)
	if err := checker.Check("screen"); err == nil {
		t.Fatal("expected non-executable file to be skipped")
	}
}

func TestCheckSkipsDirectoryNamedLikeTool(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "screen"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	checker := NewChecker([]string{dir}, nil)
	if err := checker.Check("screen"); err == nil {
		t.Fatal("expected directory entry to be skipped")
	}
}

func TestCheckAllCollectsAllMissing(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "screen")

	checker := NewChecker([]string{dir}, nil)
	if err := checker.CheckAll([]string{"screen"}); err != nil {
		t.Fatalf("expected all tools present, got %v", err)
	}

	err := checker.CheckAll([]string{"screen", "tmux", "zellij"})
	var missing *MissingToolError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingToolError, got %v", err)
	}
	if missing.Tool != "tmux, zellij" {
		t.Errorf("expected both missing tools named, got %q", missing.Tool)
	}
}

func TestSplitSearchPath(t *testing.T) {
	if got := SplitSearchPath(""); got != nil {
		t.Errorf("expected nil for empty value, got %v", got)
	}
	if got := SplitSearchPath("   "); got != nil {
		t.Errorf("expected nil for blank value, got %v", got)
	}
	got := SplitSearchPath("/usr/bin" + string(os.PathListSeparator) + "/usr/local/bin")
	if len(got) != 2 || got[0] != "/usr/bin" || got[1] != "/usr/local/bin" {
		t.Errorf("unexpected split result: %v", got)
	}
}
