package gitversion

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GoGitDescriber resolves the version in-process over the repository's object
// store, for hosts without a git binary. Matches describe-tags output: the
// tag name alone when HEAD is tagged, otherwise <tag>-<distance>-g<shorthash>.
//
// Distance is the number of commits visited in log walk order before the
// tagged commit. On merge histories this can differ from the reachable-commit
// count a git binary reports; release checkouts with linear tag ancestry get
// identical output. When several tags point at one commit, the first in
// reference listing order (lexicographic) wins.
type GoGitDescriber struct {
	RepoDir string
}

func (d *GoGitDescriber) Resolve(ctx context.Context) (string, error) {
	repo, err := git.PlainOpenWithOptions(d.RepoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", &VersionError{Op: "open", Cause: err}
	}

	head, err := repo.Head()
	if err != nil {
		return "", &VersionError{Op: "head", Cause: err}
	}

	tagged, err := taggedCommits(repo)
	if err != nil {
		return "", &VersionError{Op: "tags", Cause: err}
	}
	if len(tagged) == 0 {
		return "", &VersionError{Op: "describe", Cause: fmt.Errorf("no tags in repository")}
	}

	logIter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", &VersionError{Op: "log", Cause: err}
	}
	defer logIter.Close()

	var described string
	distance := 0
	err = logIter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if tag, ok := tagged[c.Hash]; ok {
			if distance == 0 {
				described = tag
			} else {
				described = fmt.Sprintf("%s-%d-g%s", tag, distance, head.Hash().String()[:7])
			}
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil {
		return "", &VersionError{Op: "walk", Cause: err}
	}
	if described == "" {
		return "", &VersionError{Op: "describe", Cause: fmt.Errorf("no tags reachable from HEAD")}
	}
	return described, nil
}

// taggedCommits maps commit hashes to tag names, peeling annotated tags to
// their target commits. The first tag seen for a commit wins, mirroring the
// listing order of the reference store.
func taggedCommits(repo *git.Repository) (map[plumbing.Hash]string, error) {
	tags := make(map[plumbing.Hash]string)

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tagObj, tagErr := repo.TagObject(hash); tagErr == nil {
			hash = tagObj.Target
		}
		if _, ok := tags[hash]; !ok {
			tags[hash] = ref.Name().Short()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}
