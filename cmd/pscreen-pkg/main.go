// pscreen-pkg is the packaging front end for pscreen: it validates the host
// environment (GNU screen on the search path), resolves the package version
// from repository tag history, discovers the profile data files to bundle,
// and emits packaging metadata or a source archive.
//
// Exit codes: 0 on success, 1 when a required tool is missing from the search
// path, 2 on any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jfindlay/pscreen/internal/config"
	"github.com/jfindlay/pscreen/internal/logfields"
	"github.com/jfindlay/pscreen/internal/preflight"
	"github.com/jfindlay/pscreen/internal/version"
	"github.com/jfindlay/pscreen/internal/watch"
)

const (
	exitOK          = 0
	exitMissingTool = 1
	exitFailure     = 2
)

var CLI struct {
	Manifest string `short:"c" help:"Packaging manifest path" default:"packaging.yaml"`
	Verbose  bool   `short:"v" help:"Enable verbose logging"`

	Check struct{} `cmd:"" help:"Run the pre-flight tool check only"`

	Version struct {
		Fallback string `help:"Version to use when resolution fails instead of aborting"`
	} `cmd:"" help:"Resolve and print the package version"`

	Discover struct{} `cmd:"" help:"List the data files that would be bundled"`

	Emit struct {
		Stdout   bool   `help:"Write metadata to stdout instead of the configured file"`
		Fallback string `help:"Version to use when resolution fails instead of aborting"`
	} `cmd:"" help:"Run the full pipeline and emit packaging metadata"`

	Pack struct {
		Fallback string `help:"Version to use when resolution fails instead of aborting"`
	} `cmd:"" help:"Run the full pipeline and build a source archive"`

	Init struct {
		Force bool `help:"Overwrite existing manifest file"`
	} `cmd:"" help:"Initialize a new packaging manifest"`

	Watch struct {
		Fallback string `help:"Version to use when resolution fails instead of aborting"`
	} `cmd:"" help:"Re-emit metadata whenever the manifest or data directory changes"`

	ToolVersion struct{} `cmd:"" name:"tool-version" help:"Print the pscreen-pkg build version"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "check":
		m := mustLoadManifest()
		if err := runCheck(m); err != nil {
			fail("Pre-flight check failed", err)
		}
	case "version":
		m := mustLoadManifest()
		v, err := runVersion(context.Background(), m, CLI.Version.Fallback)
		if err != nil {
			fail("Version resolution failed", err)
		}
		fmt.Println(v)
	case "discover":
		m := mustLoadManifest()
		files, err := runDiscover(m)
		if err != nil {
			fail("Data file discovery failed", err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
	case "emit":
		m := mustLoadManifest()
		if err := runEmit(context.Background(), m, CLI.Emit.Fallback, CLI.Emit.Stdout); err != nil {
			fail("Emit failed", err)
		}
	case "pack":
		m := mustLoadManifest()
		if err := runPack(context.Background(), m, CLI.Pack.Fallback); err != nil {
			fail("Pack failed", err)
		}
	case "init":
		if err := config.Init(CLI.Manifest, CLI.Init.Force); err != nil {
			fail("Init failed", err)
		}
		slog.Info("Manifest written", logfields.Path(CLI.Manifest))
	case "watch":
		m := mustLoadManifest()
		if err := runWatch(m); err != nil {
			fail("Watch failed", err)
		}
	case "tool-version":
		fmt.Printf("pscreen-pkg %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func mustLoadManifest() *config.Manifest {
	m, err := config.Load(CLI.Manifest)
	if err != nil {
		fail("Failed to load manifest", err)
	}
	return m
}

// exitCodeFor maps an error to the process exit status. A missing required
// tool gets the distinguished code so callers can tell "install screen first"
// apart from packaging bugs; everything else is a plain failure.
func exitCodeFor(err error) int {
	var missing *preflight.MissingToolError
	if errors.As(err, &missing) {
		return exitMissingTool
	}
	return exitFailure
}

// fail logs the error and exits with the code matching its classification.
func fail(msg string, err error) {
	slog.Error(msg, logfields.Error(err))

	var missing *preflight.MissingToolError
	if errors.As(err, &missing) {
		fmt.Fprintf(os.Stderr, "pscreen requires %s; install it and re-run packaging\n", missing.Tool)
	}
	os.Exit(exitCodeFor(err))
}

func runWatch(m *config.Manifest) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fallback := CLI.Watch.Fallback
	w, err := watch.NewWatcher(CLI.Manifest, m.DataDirPath(), func(runCtx context.Context) error {
		// Reload so manifest edits take effect between runs.
		reloaded, loadErr := config.Load(CLI.Manifest)
		if loadErr != nil {
			return loadErr
		}
		return runEmit(runCtx, reloaded, fallback, false)
	})
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := w.Stop(); stopErr != nil {
			slog.Warn("Failed to stop watcher", logfields.Error(stopErr))
		}
	}()

	// Emit once up front so the watcher starts from a consistent state.
	if err := runEmit(ctx, m, fallback, false); err != nil {
		slog.Error("Initial emit failed", logfields.Error(err))
	}

	slog.Info("Watching for changes, press Ctrl-C to stop")
	<-ctx.Done()
	return nil
}
