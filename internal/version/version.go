// Package version holds build identity injected at link time.
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders the build identity on one line.
func String() string {
	return Version + " (" + GitSHA + ", " + BuildTime + ")"
}
