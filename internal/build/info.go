// Package build carries version information stamped in with -ldflags:
//
//	go build -ldflags "-X github.com/shaharia-lab/jobportal/internal/build.Version=v1.2.0"
package build

import (
	"fmt"
	"log/slog"
)

var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, CommitSHA, BuildDate)
}

// Attr groups the build info for structured logs.
func Attr() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", CommitSHA),
		slog.String("date", BuildDate),
	)
}
