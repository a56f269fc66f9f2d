// Package version exposes build version information for the scriptkit tools.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/opsmith/scriptkit/internal/version.Version=v1.2.3 \
//	                   -X github.com/opsmith/scriptkit/internal/version.Commit=abc123"
//
// When unset they are filled from Go build info if available.
var (
	// Version is the semantic version of the tools.
	Version = ""
	// Commit is the git commit hash.
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range info.Settings {
		if setting.Key != "vcs.revision" || Commit != "" {
			continue
		}
		rev := setting.Value
		if len(rev) > 7 {
			rev = rev[:7]
		}
		Commit = rev
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// Full returns the full version string including commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
