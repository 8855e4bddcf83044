package gitversion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	helpers "github.com/jfindlay/pscreen/internal/testutil/testutils"
)

func TestGoGitDescriberExactlyOnTag(t *testing.T) {
	repo, _, tmp := helpers.SetupTestGitRepo(t)

	hash := helpers.AddCommit(t, repo, tmp, "a.txt", "A", "A")
	helpers.Tag(t, repo, "v1.2", hash)

	d := &GoGitDescriber{RepoDir: tmp}
	v, err := d.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v != "v1.2" {
		t.Errorf("expected bare tag name when HEAD is tagged, got %q", v)
	}
}

func TestGoGitDescriberWithDistance(t *testing.T) {
	repo, _, tmp := helpers.SetupTestGitRepo(t)

	tagged := helpers.AddCommit(t, repo, tmp, "a.txt", "A", "A")
	helpers.Tag(t, repo, "v1.2", tagged)
	helpers.AddCommit(t, repo, tmp, "b.txt", "B", "B")
	head := helpers.AddCommit(t, repo, tmp, "c.txt", "C", "C")

	d := &GoGitDescriber{RepoDir: tmp}
	v, err := d.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := fmt.Sprintf("v1.2-2-g%s", head.String()[:7])
	if v != want {
		t.Errorf("expected %q, got %q", want, v)
	}
}

func TestGoGitDescriberNearestTagWins(t *testing.T) {
	repo, _, tmp := helpers.SetupTestGitRepo(t)

	old := helpers.AddCommit(t, repo, tmp, "a.txt", "A", "A")
	helpers.Tag(t, repo, "v1.0", old)
	newer := helpers.AddCommit(t, repo, tmp, "b.txt", "B", "B")
	helpers.Tag(t, repo, "v1.1", newer)
	head := helpers.AddCommit(t, repo, tmp, "c.txt", "C", "C")

	d := &GoGitDescriber{RepoDir: tmp}
	v, err := d.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := fmt.Sprintf("v1.1-1-g%s", head.String()[:7])
	if v != want {
		t.Errorf("expected nearest tag, got %q (want %q)", v, want)
	}
}

func TestGoGitDescriberMultipleTagsOneCommit(t *testing.T) {
	repo, _, tmp := helpers.SetupTestGitRepo(t)

	hash := helpers.AddCommit(t, repo, tmp, "a.txt", "A", "A")
	helpers.Tag(t, repo, "v2.0", hash)
	helpers.Tag(t, repo, "v1.9", hash)

	d := &GoGitDescriber{RepoDir: tmp}
	v, err := d.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// First tag in listing order (lexicographic) wins.
	if v != "v1.9" {
		t.Errorf("expected v1.9, got %q", v)
	}
}

func TestGoGitDescriberNoTags(t *testing.T) {
	repo, _, tmp := helpers.SetupTestGitRepo(t)
	helpers.AddCommit(t, repo, tmp, "a.txt", "A", "A")

	d := &GoGitDescriber{RepoDir: tmp}
	_, err := d.Resolve(context.Background())
	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VersionError for untagged repository, got %v", err)
	}
}

func TestGoGitDescriberNotARepository(t *testing.T) {
	d := &GoGitDescriber{RepoDir: t.TempDir()}
	_, err := d.Resolve(context.Background())
	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VersionError outside a repository, got %v", err)
	}
}
