package version

// Version contains the pscreen-pkg tool's own version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/jfindlay/pscreen/internal/version.Version=v1.1.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
