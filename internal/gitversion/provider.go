// Package gitversion resolves the package version from repository tag
// history, with git-describe semantics: the nearest reachable tag, suffixed
// with commit distance and abbreviated hash when the checkout is not exactly
// at a tag.
package gitversion

import (
	"context"
	"fmt"
)

// Provider resolves the version string stamped into packaging metadata.
// Capability-injected so tests substitute fakes instead of invoking a real
// version-control binary.
type Provider interface {
	Resolve(ctx context.Context) (string, error)
}

// VersionError indicates the version query could not produce usable output.
// Resolution failure aborts the packaging run unless the manifest configures
// an explicit fallback version.
type VersionError struct {
	Op    string
	Cause error
}

func (e *VersionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("version resolution failed (%s): %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("version resolution failed (%s)", e.Op)
}

func (e *VersionError) Unwrap() error {
	return e.Cause
}

// Static is a Provider returning a fixed version string, for manifests that
// pin their version instead of deriving it.
type Static struct {
	Version string
}

func (s Static) Resolve(context.Context) (string, error) {
	if s.Version == "" {
		return "", &VersionError{Op: "static", Cause: fmt.Errorf("empty static version")}
	}
	return s.Version, nil
}
