// Package buildinfo carries version metadata injected with -ldflags at build time.
package buildinfo

// Set via -ldflags "-X github.com/bookmytix/admin-core/internal/buildinfo.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
