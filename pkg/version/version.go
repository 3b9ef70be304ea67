// Package version exposes build metadata injected at link time.
package version

import "runtime"

// Set via -ldflags at build time; defaults suit local development.
var (
	// Version is the semantic version of the build, e.g. v0.1.0.
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = ""
	// Date is the build timestamp in RFC3339.
	Date = ""
	// Go is the toolchain version used for the build.
	Go = runtime.Version()
)

// Info returns version/build metadata suitable for logging.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"go":      Go,
	}
}
