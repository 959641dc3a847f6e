package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/thoughtful-solutions/metrics/internal/errors"
)

// ValidationContext names the command surface being validated, so optional
// subsystems are only required where a command actually uses them.
type ValidationContext string

const (
	// ValidationContextAnalyze - analysis commands need sound thresholds
	ValidationContextAnalyze ValidationContext = "analyze"
	// ValidationContextHistory - history commands need working storage
	ValidationContextHistory ValidationContext = "history"
	// ValidationContextGraph - coupling export needs Neo4j
	ValidationContextGraph ValidationContext = "graph"
	// ValidationContextExplain - narrative generation needs an LLM provider
	ValidationContextExplain ValidationContext = "explain"
	// ValidationContextAll - validate everything
	ValidationContextAll ValidationContext = "all"
)

// ValidationResult collects errors and warnings from a validation pass.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError records an error and marks the result invalid.
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning records a warning.
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any errors were recorded.
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error renders the result for terminal output.
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  ❌ %s\n", err))
	}
	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s\n", warn))
		}
	}
	return sb.String()
}

// Validate checks the configuration for the given context with the
// auto-detected deployment mode.
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	return c.ValidateWithMode(ctx, DetectMode())
}

// ValidateWithMode checks the configuration for the given context and mode.
func (c *Config) ValidateWithMode(ctx ValidationContext, mode DeploymentMode) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch ctx {
	case ValidationContextAnalyze:
		c.validateAnalysis(result)
	case ValidationContextHistory:
		c.validateStorage(result, true, mode)
	case ValidationContextGraph:
		c.validateGraph(result, true, mode)
	case ValidationContextExplain:
		c.validateLLM(result, true)
	case ValidationContextAll:
		c.validateAnalysis(result)
		c.validateStorage(result, false, mode)
		c.validateGraph(result, false, mode)
		c.validateLLM(result, false)
		c.validateGitHub(result)
	}

	return result
}

func (c *Config) validateAnalysis(result *ValidationResult) {
	if c.Analysis.OrphanThreshold <= 0 || c.Analysis.OrphanThreshold > 1 {
		result.AddError("orphan threshold must be within (0, 1], got %.2f", c.Analysis.OrphanThreshold)
	}
	if c.Analysis.CouplingThreshold < 0 || c.Analysis.CouplingThreshold > 100 {
		result.AddWarning("coupling threshold %.1f is outside [0, 100], results may be empty", c.Analysis.CouplingThreshold)
	}
	if c.Analysis.FrictionMinAuthors < 1 {
		result.AddWarning("friction min authors %d is below 1, default will apply", c.Analysis.FrictionMinAuthors)
	}
	if c.Analysis.Workers < 0 {
		result.AddWarning("analysis workers %d is negative, default will apply", c.Analysis.Workers)
	}
	if len(c.Analysis.Extensions) == 0 {
		result.AddWarning("extension allowlist is empty, no files will be analyzed")
	}
}

func (c *Config) validateStorage(result *ValidationResult, required bool, mode DeploymentMode) {
	switch c.Storage.Type {
	case "sqlite", "":
		if c.Storage.LocalPath == "" {
			if required {
				result.AddError("LOCAL_DB_PATH is required for sqlite storage")
			} else {
				result.AddWarning("LOCAL_DB_PATH is not set, default will apply")
			}
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			if required {
				result.AddError("POSTGRES_DSN is required for postgres storage")
			} else {
				result.AddWarning("POSTGRES_DSN is not set")
			}
			return
		}
		if !strings.HasPrefix(c.Storage.PostgresDSN, "postgres://") && !strings.HasPrefix(c.Storage.PostgresDSN, "postgresql://") {
			result.AddError("POSTGRES_DSN must start with postgres:// or postgresql://")
		}
		if strings.Contains(c.Storage.PostgresDSN, "sslmode=disable") {
			if mode.RequiresSecureCredentials() {
				result.AddError("PostgreSQL DSN has sslmode=disable, not allowed in %s mode", mode)
			} else {
				result.AddWarning("PostgreSQL DSN has sslmode=disable")
			}
		}
	default:
		result.AddError("storage type must be sqlite or postgres, got %q", c.Storage.Type)
	}
}

func (c *Config) validateGraph(result *ValidationResult, required bool, mode DeploymentMode) {
	if c.Graph.URI == "" {
		if required {
			result.AddError("NEO4J_URI is required but not set")
		} else {
			result.AddWarning("NEO4J_URI is not set, graph export unavailable")
		}
		return
	}
	if _, err := url.Parse(c.Graph.URI); err != nil {
		result.AddError("NEO4J_URI is invalid: %v", err)
	}
	if strings.Contains(c.Graph.URI, "localhost") && mode.RequiresSecureCredentials() {
		result.AddError("Neo4j URI uses localhost; %s mode (%s) needs a remote URI", mode, mode.Description())
	}

	if c.Graph.User == "" && required {
		result.AddError("NEO4J_USER is required but not set")
	}
	if c.Graph.Password == "" {
		if required {
			result.AddError("NEO4J_PASSWORD is required but not set")
		}
	} else if mode.RequiresSecureCredentials() {
		for _, insecure := range []string{"password", "neo4j", "changeme"} {
			if c.Graph.Password == insecure {
				result.AddError("NEO4J_PASSWORD is an insecure default (%s), not allowed in %s mode", insecure, mode)
			}
		}
	}
}

func (c *Config) validateLLM(result *ValidationResult, required bool) {
	switch c.LLM.Provider {
	case "none", "":
		if required {
			result.AddError("llm provider is 'none'; set LLM_PROVIDER to openai or gemini for narratives")
		}
	case "openai":
		if c.LLM.OpenAIKey == "" {
			if required {
				result.AddError("OPENAI_API_KEY is required but not set. Set it via environment variable or run: gitmetrics configure")
			} else {
				result.AddWarning("OPENAI_API_KEY is not set, narratives will be skipped")
			}
		}
		if c.LLM.OpenAIModel == "" {
			result.AddWarning("OPENAI_MODEL is not set, default model will apply")
		}
	case "gemini":
		if c.LLM.GeminiKey == "" {
			if required {
				result.AddError("GEMINI_API_KEY is required but not set. Set it via environment variable or run: gitmetrics configure")
			} else {
				result.AddWarning("GEMINI_API_KEY is not set, narratives will be skipped")
			}
		}
	default:
		result.AddError("llm provider must be openai, gemini, or none, got %q", c.LLM.Provider)
	}
}

func (c *Config) validateGitHub(result *ValidationResult) {
	if c.GitHub.Token == "" {
		result.AddWarning("GITHUB_TOKEN is not set, GitHub enrichment will be skipped")
	}
	if c.GitHub.RateLimit <= 0 {
		result.AddWarning("GITHUB_RATE_LIMIT is invalid, default (10 req/s) will apply")
	}
}

// RequireStorage returns a typed error when storage configuration is unusable.
func (c *Config) RequireStorage() error {
	result := &ValidationResult{Valid: true}
	c.validateStorage(result, true, DetectMode())
	if result.HasErrors() {
		return errors.ConfigError(result.Error())
	}
	return nil
}

// RequireGraph returns a typed error when Neo4j configuration is unusable.
func (c *Config) RequireGraph() error {
	result := &ValidationResult{Valid: true}
	c.validateGraph(result, true, DetectMode())
	if result.HasErrors() {
		return errors.ConfigError(result.Error())
	}
	return nil
}

// RequireLLM returns a typed error when no usable LLM provider is configured.
func (c *Config) RequireLLM() error {
	result := &ValidationResult{Valid: true}
	c.validateLLM(result, true)
	if result.HasErrors() {
		return errors.ConfigError(result.Error())
	}
	return nil
}
