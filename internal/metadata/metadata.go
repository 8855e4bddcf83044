// Package metadata builds and emits the declarative packaging metadata
// consumed by the external installation mechanism.
package metadata

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jfindlay/pscreen/internal/config"
)

// Metadata is the complete record of one packaging run's declared outputs.
type Metadata struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Description string        `json:"description,omitempty"`
	Author      string        `json:"author,omitempty"`
	AuthorEmail string        `json:"author_email,omitempty"`
	URL         string        `json:"url,omitempty"`
	Scripts     []string      `json:"scripts,omitempty"`
	DataFiles   []DataFileSet `json:"data_files,omitempty"`
}

// DataFileSet maps bundled files to their install destination directory.
type DataFileSet struct {
	Dest  string   `json:"dest"`
	Files []string `json:"files"`
}

// New assembles metadata from the manifest, the resolved version and the
// discovered data files. Each run gets a fresh id for log correlation.
func New(m *config.Manifest, version string, dataFiles []string) *Metadata {
	md := &Metadata{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Name:        m.Package.Name,
		Version:     version,
		Description: m.Package.Description,
		Author:      m.Package.Author,
		AuthorEmail: m.Package.AuthorEmail,
		URL:         m.Package.URL,
		Scripts:     m.Scripts,
	}
	if len(dataFiles) > 0 {
		md.DataFiles = []DataFileSet{{Dest: m.Data.Dest, Files: dataFiles}}
	}
	return md
}

// ToJSON serializes the metadata to JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return data, nil
}

// FromJSON deserializes metadata from JSON.
func FromJSON(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the metadata's declared content,
// excluding the per-run id and timestamp. Two runs over identical inputs
// produce identical hashes.
func (m *Metadata) Hash() (string, error) {
	hashInput := struct {
		Name        string        `json:"name"`
		Version     string        `json:"version"`
		Description string        `json:"description"`
		Author      string        `json:"author"`
		AuthorEmail string        `json:"author_email"`
		URL         string        `json:"url"`
		Scripts     []string      `json:"scripts"`
		DataFiles   []DataFileSet `json:"data_files"`
	}{
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Author:      m.Author,
		AuthorEmail: m.AuthorEmail,
		URL:         m.URL,
		Scripts:     m.Scripts,
		DataFiles:   m.DataFiles,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Write serializes the metadata and writes it to path.
func (m *Metadata) Write(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}
