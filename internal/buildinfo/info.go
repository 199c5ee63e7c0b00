// Package buildinfo holds version metadata stamped at link time.
package buildinfo

// Overridden via -ldflags on release builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
