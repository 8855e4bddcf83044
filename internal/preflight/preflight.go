// Package preflight validates the host environment before packaging proceeds.
//
// The packaged pscreen script is useless without GNU screen installed, so the
// packaging run refuses to emit metadata when a required tool is absent from
// the search path.
package preflight

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// StatFunc resolves a candidate path to file metadata. Injected so the checker
// is testable without touching the host filesystem.
type StatFunc func(path string) (fs.FileInfo, error)

// MissingToolError indicates a required external tool was not found anywhere
// on the search path.
type MissingToolError struct {
	Tool     string
	Searched int // directories scanned
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("required tool %q not found on search path (%d directories scanned)", e.Tool, e.Searched)
}

// Checker scans an ordered search path for required external tools.
type Checker struct {
	searchPath []string
	stat       StatFunc
}

// NewChecker creates a checker over the given ordered search path. A nil stat
// function defaults to the host filesystem.
func NewChecker(searchPath []string, stat StatFunc) *Checker {
	if stat == nil {
		stat = os.Stat
	}
	return &Checker{searchPath: searchPath, stat: stat}
}

// SplitSearchPath parses a PATH-style environment value into an ordered list
// of directories. An empty or unset value yields no directories, which is a
// valid (if doomed) search path, not an error.
func SplitSearchPath(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return filepath.SplitList(value)
}

// Check scans the search path in order and returns nil at the first directory
// containing an executable regular file named tool. Unreadable directories
// and non-executable matches are skipped, not errors.
func (c *Checker) Check(tool string) error {
	for _, dir := range c.searchPath {
		if dir == "" {
			continue
		}
		info, err := c.stat(filepath.Join(dir, tool))
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
			return nil
		}
	}
	return &MissingToolError{Tool: tool, Searched: len(c.searchPath)}
}

// CheckAll verifies every required tool, collecting all misses so the
// diagnostic names everything the operator needs to install, not just the
// first gap.
func (c *Checker) CheckAll(tools []string) error {
	var missing []string
	for _, tool := range tools {
		if err := c.Check(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return &MissingToolError{Tool: strings.Join(missing, ", "), Searched: len(c.searchPath)}
	}
	return nil
}
