// Package version identifies edge-locator builds in the startup log and the
// About dialog.
package version

import "fmt"

// Overridden at release time through -ldflags.
var (
	// Version is the semantic version, -dev on plain source builds
	Version = "0.1.0-dev"

	// BuildTime is the UTC time the binary was built
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from
	GitCommit = "unknown"
)

// String formats the version for display, with the commit when one was
// recorded at build time.
func String() string {
	if GitCommit == "unknown" {
		return "v" + Version
	}
	return fmt.Sprintf("v%s (%s)", Version, GitCommit)
}
