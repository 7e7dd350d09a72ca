// Package version carries build metadata injected through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/jira-exporter/internal/version.Version=v1.0.0"
package version

import "fmt"

// Version is the release version of the exporter.
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders all build metadata on one line.
func String() string {
	return fmt.Sprintf("jira-exporter %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
