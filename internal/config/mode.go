package config

import (
	"os"
	"strings"
)

// DeploymentMode represents the execution context the binary runs in.
type DeploymentMode string

const (
	// ModeDevelopment - running from a source checkout; .env defaults and
	// localhost services are expected.
	ModeDevelopment DeploymentMode = "development"

	// ModePackaged - installed binary; credentials come from env vars, the
	// keychain, or interactive prompts.
	ModePackaged DeploymentMode = "packaged"

	// ModeCI - pipeline execution; env vars only, never prompt.
	ModeCI DeploymentMode = "ci"
)

// DetectMode determines the deployment context from the environment.
func DetectMode() DeploymentMode {
	if mode := os.Getenv("GITMETRICS_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "development", "dev":
			return ModeDevelopment
		case "packaged", "pkg", "production", "prod":
			return ModePackaged
		case "ci", "cicd":
			return ModeCI
		}
	}

	if isCI() {
		return ModeCI
	}

	// Source-checkout indicators.
	if _, err := os.Stat(".env"); err == nil {
		return ModeDevelopment
	}
	if _, err := os.Stat("go.mod"); err == nil {
		return ModeDevelopment
	}

	return ModePackaged
}

// isCI detects common CI environment variables.
func isCI() bool {
	ciEnvVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TF_BUILD",
	}
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// String returns the string representation of the mode.
func (m DeploymentMode) String() string {
	return string(m)
}

// AllowsDevelopmentDefaults reports whether .env defaults are acceptable.
func (m DeploymentMode) AllowsDevelopmentDefaults() bool {
	return m == ModeDevelopment
}

// RequiresSecureCredentials reports whether default passwords and localhost
// services must be rejected.
func (m DeploymentMode) RequiresSecureCredentials() bool {
	return m == ModePackaged || m == ModeCI
}

// AllowsInteractivePrompts reports whether stdin prompting is acceptable.
func (m DeploymentMode) AllowsInteractivePrompts() bool {
	return m == ModePackaged
}

// Description returns a human-readable description of the mode.
func (m DeploymentMode) Description() string {
	switch m {
	case ModeDevelopment:
		return "source checkout"
	case ModePackaged:
		return "installed binary"
	case ModeCI:
		return "CI/CD pipeline"
	default:
		return "unknown mode"
	}
}
