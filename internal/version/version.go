// Package version carries build metadata set with -ldflags.
package version

// Version and Commit are overridden at build time, for example
// -ldflags "-X github.com/entityauth/entitykit/internal/version.Version=v0.3.0".
var (
	Version = "dev"
	Commit  = ""
)

func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
