package common

// Project structure constants
const (
	// ConfigDir is the project subdirectory holding build.yaml
	ConfigDir = "config"

	// BuildConfig is the filename of the build document
	BuildConfig = "build.yaml"

	// EnvFile is the name of the environment file loaded before each command
	EnvFile = ".env"

	// EnvExampleFile is written next to .gitignore by `solkit init`
	EnvExampleFile = ".env.example"

	// Default timeout for a single network verification in seconds
	DefaultVerifyTimeoutSeconds = 10

	// Schedule used by `networks watch` when --cron-expr is not given
	DefaultWatchSchedule = "*/5 * * * *"

	// Maximum number of progress rows tracked at once
	MaxTrackedProgressRows = 20
)
