package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func SetupTestGitRepo(t *testing.T) (*git.Repository, *git.Worktree, string) {
	t.Helper()

	tempDir := t.TempDir()

	repo, err := git.PlainInit(tempDir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	return repo, w, tempDir
}

// AddCommit writes a file, stages it and commits, returning the commit hash.
func AddCommit(t *testing.T, repo *git.Repository, repoPath, filename, content, msg string) plumbing.Hash {
	t.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	full := filepath.Join(repoPath, filename)
	if writeErr := os.WriteFile(full, []byte(content), 0o600); writeErr != nil {
		t.Fatalf("write file: %v", writeErr)
	}
	if _, addErr := wt.Add(filename); addErr != nil {
		t.Fatalf("add: %v", addErr)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}

// Tag creates a lightweight tag pointing at the given commit.
func Tag(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash) {
	t.Helper()

	if _, err := repo.CreateTag(name, hash, nil); err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
}
