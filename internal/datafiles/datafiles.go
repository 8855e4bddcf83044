// Package datafiles discovers the data files bundled into the package: the
// direct children of the manifest's data directory that are regular files.
package datafiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Lister lists directory entries and resolves entry metadata. Injected so
// discovery is testable against in-memory fixtures.
type Lister interface {
	List(dir string) ([]fs.DirEntry, error)
	// Stat follows symlinks, so a link to a regular file counts as a file
	// and a link to a directory does not.
	Stat(path string) (fs.FileInfo, error)
}

// OSLister lists directories on the host filesystem.
type OSLister struct{}

func (OSLister) List(dir string) ([]fs.DirEntry, error) { return os.ReadDir(dir) }
func (OSLister) Stat(path string) (fs.FileInfo, error)  { return os.Stat(path) }

// DirectoryNotFoundError indicates the expected data directory is absent.
// Packaging cannot proceed without its declared data files.
type DirectoryNotFoundError struct {
	Dir string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("data directory not found: %s", e.Dir)
}

// Discoverer finds the data files beneath a base directory.
type Discoverer struct {
	lister Lister
}

// NewDiscoverer creates a discoverer. A nil lister defaults to the host
// filesystem.
func NewDiscoverer(lister Lister) *Discoverer {
	if lister == nil {
		lister = OSLister{}
	}
	return &Discoverer{lister: lister}
}

// Discover lists baseDir/subdir and returns "subdir/name" relative paths for
// its regular files, sorted lexicographically so packaging output is
// deterministic regardless of directory-listing order. Subdirectories and
// links to directories are excluded.
func (d *Discoverer) Discover(baseDir, subdir string) ([]string, error) {
	dir := filepath.Join(baseDir, subdir)

	entries, err := d.lister.List(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DirectoryNotFoundError{Dir: dir}
		}
		return nil, fmt.Errorf("failed to list data directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		info, statErr := d.lister.Stat(filepath.Join(dir, entry.Name()))
		if statErr != nil {
			// Dangling symlink or a racing delete; nothing to bundle.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path.Join(subdir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}
