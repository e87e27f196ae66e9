// Package buildinfo carries version metadata stamped at build time via
// -ldflags "-X github.com/bankbook-dev/bankbook/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the stamped metadata in one line for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
