// Package config defines monobuild settings and their defaults.
package config

// Config holds settings shared by every command. Flags override environment
// variables, which override the config file, which overrides Default().
type Config struct {
	// DependencyFiles is the glob matching manifest files, relative to Root.
	DependencyFiles string `mapstructure:"dependency_files"`
	// Root is the repository root manifests are searched under.
	Root string `mapstructure:"root"`
	// BaseBranch is the branch feature work is compared against.
	BaseBranch string `mapstructure:"base_branch"`
	// BaseCommit is the commit main branch work is compared against.
	BaseCommit string `mapstructure:"base_commit"`

	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is an OTLP/HTTP URL. OTEL_EXPORTER_OTLP_ENDPOINT is used when
	// empty.
	Endpoint string `mapstructure:"endpoint"`
}

// Defaults.
const (
	DefaultDependencyFiles = "**/Dependencies"
	DefaultBaseBranch      = "master"
	DefaultBaseCommit      = "HEAD^1"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DependencyFiles: DefaultDependencyFiles,
		Root:            ".",
		BaseBranch:      DefaultBaseBranch,
		BaseCommit:      DefaultBaseCommit,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
