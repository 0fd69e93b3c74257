// Package app holds build metadata stamped at release time.
package app

var (
	// Version is the release version.
	Version = "0.1.0-dev"

	// BuildCommit is the VCS commit the binary was built from.
	BuildCommit = "unknown"
)
