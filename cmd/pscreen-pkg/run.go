package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jfindlay/pscreen/internal/config"
	"github.com/jfindlay/pscreen/internal/datafiles"
	pkgerrors "github.com/jfindlay/pscreen/internal/errors"
	"github.com/jfindlay/pscreen/internal/gitversion"
	"github.com/jfindlay/pscreen/internal/logfields"
	"github.com/jfindlay/pscreen/internal/metadata"
	"github.com/jfindlay/pscreen/internal/preflight"
	"github.com/jfindlay/pscreen/internal/readme"
	"github.com/jfindlay/pscreen/internal/sdist"
)

// runCheck verifies every tool the manifest requires against the process
// search path.
func runCheck(m *config.Manifest) error {
	searchPath := preflight.SplitSearchPath(os.Getenv("PATH"))
	checker := preflight.NewChecker(searchPath, nil)

	if err := checker.CheckAll(m.Requires.Tools); err != nil {
		return err
	}
	for _, tool := range m.Requires.Tools {
		slog.Debug("Required tool present", logfields.Tool(tool))
	}
	slog.Info("Pre-flight check passed", logfields.Count(len(m.Requires.Tools)))
	return nil
}

// versionProvider selects the resolver the manifest configures.
func versionProvider(m *config.Manifest) (gitversion.Provider, error) {
	switch m.Version.Provider {
	case "git":
		return &gitversion.ExecDescriber{
			RepoDir: m.BaseDir,
			Timeout: time.Duration(m.Version.TimeoutSeconds) * time.Second,
		}, nil
	case "gogit":
		return &gitversion.GoGitDescriber{RepoDir: m.BaseDir}, nil
	case "static":
		return gitversion.Static{Version: m.Version.Static}, nil
	default:
		return nil, fmt.Errorf("unknown version provider %q", m.Version.Provider)
	}
}

// runVersion resolves the package version. An explicit fallback (flag wins
// over manifest) substitutes a sentinel instead of aborting when resolution
// fails; without one, failure is fatal for the packaging run.
func runVersion(ctx context.Context, m *config.Manifest, fallback string) (string, error) {
	provider, err := versionProvider(m)
	if err != nil {
		return "", err
	}

	if fallback == "" {
		fallback = m.Version.Fallback
	}

	v, err := provider.Resolve(ctx)
	if err != nil {
		if fallback != "" {
			slog.Warn("Version resolution failed, using fallback",
				logfields.Version(fallback), logfields.Error(err))
			return fallback, nil
		}
		return "", err
	}

	slog.Debug("Version resolved", logfields.Version(v))
	return v, nil
}

// runDiscover lists the data files to bundle, relative to the manifest's
// directory.
func runDiscover(m *config.Manifest) ([]string, error) {
	discoverer := datafiles.NewDiscoverer(nil)
	files, err := discoverer.Discover(m.BaseDir, m.Data.Dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("Data files discovered", logfields.Dir(m.Data.Dir), logfields.Count(len(files)))
	return files, nil
}

// description returns the manifest description, falling back to the first
// paragraph of the readme. A missing readme is not fatal.
func description(m *config.Manifest) string {
	if m.Package.Description != "" {
		return m.Package.Description
	}
	desc, err := readme.DescriptionFromFile(m.ReadmePath())
	if err != nil {
		slog.Debug("No readme description available", logfields.Error(err))
		return ""
	}
	return desc
}

// buildMetadata runs the full validation pipeline and assembles the metadata:
// pre-flight check, version resolution, data file discovery.
func buildMetadata(ctx context.Context, m *config.Manifest, fallback string) (*metadata.Metadata, error) {
	start := time.Now()

	if err := runCheck(m); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CategoryToolCheck, pkgerrors.SeverityFatal, "pre-flight check failed").
			WithContext("tools", m.Requires.Tools)
	}

	version, err := runVersion(ctx, m, fallback)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CategoryVersion, pkgerrors.SeverityFatal, "version resolution failed").
			WithContext("provider", m.Version.Provider)
	}

	files, err := runDiscover(m)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CategoryFileSystem, pkgerrors.SeverityFatal, "data file discovery failed").
			WithContext("dir", m.Data.Dir)
	}

	m.Package.Description = description(m)
	md := metadata.New(m, version, files)

	hash, err := md.Hash()
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CategoryMetadata, pkgerrors.SeverityFatal, "metadata hashing failed")
	}
	slog.Info("Packaging pipeline complete",
		logfields.RunID(md.RunID),
		logfields.Package(md.Name),
		logfields.Version(md.Version),
		logfields.Count(len(files)),
		slog.String("content_hash", hash[:12]),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return md, nil
}

// runEmit runs the pipeline and writes the metadata file (or stdout).
func runEmit(ctx context.Context, m *config.Manifest, fallback string, toStdout bool) error {
	md, err := buildMetadata(ctx, m, fallback)
	if err != nil {
		return err
	}

	if toStdout {
		data, jsonErr := md.ToJSON()
		if jsonErr != nil {
			return jsonErr
		}
		fmt.Println(string(data))
		return nil
	}

	outPath := m.Output.Metadata
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(m.BaseDir, outPath)
	}
	if err := md.Write(outPath); err != nil {
		return err
	}
	slog.Info("Metadata written", logfields.Path(outPath))
	return nil
}

// runPack runs the pipeline and builds the source archive from the scripts
// and discovered data files.
func runPack(ctx context.Context, m *config.Manifest, fallback string) error {
	md, err := buildMetadata(ctx, m, fallback)
	if err != nil {
		return err
	}

	files := append([]string{}, m.Scripts...)
	for _, set := range md.DataFiles {
		files = append(files, set.Files...)
	}

	builder := sdist.NewBuilder(m.BaseDir)
	archivePath, err := builder.Build(m.Output.DistDir, md.Name, md.Version, files)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CategoryArchive, pkgerrors.SeverityFatal, "source archive build failed").
			WithContext("dist_dir", m.Output.DistDir)
	}
	slog.Info("Source archive written", logfields.Path(archivePath), logfields.Count(len(files)))
	return nil
}
