// Package version carries build metadata injected at link time.
package version

// Set via -ldflags "-X github.com/ctxpack/ctxpack/pkg/version.Version=...".
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
