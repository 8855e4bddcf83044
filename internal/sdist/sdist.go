// Package sdist builds the source distribution archive: the installable
// scripts plus the discovered data files, rooted under <name>-<version>/.
package sdist

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Builder writes source archives for a checkout rooted at baseDir.
type Builder struct {
	baseDir string
}

func NewBuilder(baseDir string) *Builder {
	return &Builder{baseDir: baseDir}
}

// Build writes <distDir>/<name>-<version>.tar.gz containing the given
// checkout-relative files and returns the archive path. Entries are written
// in sorted order with normalized ownership and timestamps so identical
// inputs produce byte-identical archives.
func (b *Builder) Build(distDir, name, version string, files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no files to archive")
	}

	if !filepath.IsAbs(distDir) {
		distDir = filepath.Join(b.baseDir, distDir)
	}
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return "", fmt.Errorf("create dist directory: %w", err)
	}

	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)

	prefix := fmt.Sprintf("%s-%s", name, version)
	archivePath := filepath.Join(distDir, prefix+".tar.gz")

	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, rel := range sorted {
		if err := b.addFile(tw, prefix, rel); err != nil {
			tw.Close()
			gz.Close()
			os.Remove(archivePath)
			return "", err
		}
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}
	return archivePath, nil
}

func (b *Builder) addFile(tw *tar.Writer, prefix, rel string) error {
	full := filepath.Join(b.baseDir, rel)

	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("stat archive member %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("archive member %s is not a regular file", rel)
	}

	// Normalize everything that varies across hosts: ownership, timestamps,
	// and permission bits beyond the executable flag.
	mode := int64(0o644)
	if info.Mode().Perm()&0o111 != 0 {
		mode = 0o755
	}
	hdr := &tar.Header{
		Name:    prefix + "/" + filepath.ToSlash(rel),
		Size:    info.Size(),
		Mode:    mode,
		ModTime: time.Unix(0, 0),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", rel, err)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("read archive member %s: %w", rel, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write archive member %s: %w", rel, err)
	}
	return nil
}
