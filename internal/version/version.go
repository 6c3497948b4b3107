// Package version holds build identification, populated via -ldflags.
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns the human-readable build identification.
func String() string {
	return fmt.Sprintf("valker %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
