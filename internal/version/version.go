package version

import "fmt"

// These variables are set at build time via ldflags
var (
	Commit    = "unknown"
	BuildTime = "unknown"
	Semver    = "dev"
)

// String returns the version string shown by `cocsheet --version`.
func String() string {
	return fmt.Sprintf("cocsheet %s (commit: %s, built: %s)", Semver, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
