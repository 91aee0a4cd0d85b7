package version

var (
	// Version is the semantic version of the release, set at build time.
	Version = "0.1.0-dev"

	// BuildTime is the UTC timestamp of the build, set at build time.
	BuildTime = "unknown"

	// BuildCommit is the git commit the binary was built from, set at
	// build time.
	BuildCommit = "unknown"
)

func Get() string { return Version }
