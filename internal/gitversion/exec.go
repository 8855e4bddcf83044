package gitversion

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds the describe subprocess so an unresponsive git
// invocation cannot hang the packaging run indefinitely.
const DefaultTimeout = 5 * time.Second

// ExecDescriber resolves the version by invoking `git describe --tags` as a
// subprocess and capturing its trimmed standard output.
type ExecDescriber struct {
	RepoDir string        // repository checkout; empty means current directory
	GitPath string        // git binary; empty means "git" from the search path
	Timeout time.Duration // zero means DefaultTimeout
}

func (d *ExecDescriber) Resolve(ctx context.Context) (string, error) {
	gitPath := d.GitPath
	if gitPath == "" {
		gitPath = "git"
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, gitPath, "describe", "--tags")
	cmd.Dir = d.RepoDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", &VersionError{Op: "describe", Cause: fmt.Errorf("timed out after %s", timeout)}
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", &VersionError{Op: "describe", Cause: fmt.Errorf("%w: %s", err, msg)}
		}
		return "", &VersionError{Op: "describe", Cause: err}
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", &VersionError{Op: "describe", Cause: fmt.Errorf("empty output")}
	}
	return out, nil
}
