package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyTool       = "tool"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyFile       = "file"
	KeyPackage    = "package"
	KeyVersion    = "version"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
