package version

// Set at build time with -ldflags "-X github.com/Layr-Labs/solkit-cli/internal/version.version=..."
var (
	version = "Development"
	commit  = "unknown"
)

// GetVersion returns the release version of the binary
func GetVersion() string {
	return version
}

// GetCommit returns the git commit the binary was built from
func GetCommit() string {
	return commit
}
