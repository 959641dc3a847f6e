// Package config loads the gitmetrics configuration from YAML files,
// environment variables, and the OS keychain, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
)

// Config holds all configuration settings.
type Config struct {
	// Analysis knobs shared by the commands
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Storage configuration for recorded runs
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// GitHub enrichment
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// LLM narrative generation
	LLM LLMConfig `yaml:"llm" mapstructure:"llm"`

	// Graph export (Neo4j)
	Graph GraphConfig `yaml:"graph" mapstructure:"graph"`

	// Blame cache
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
}

type AnalysisConfig struct {
	// OrphanThreshold stops the truck-factor simulation once this share of
	// owned files is orphaned. Must stay within (0, 1].
	OrphanThreshold float64 `yaml:"orphan_threshold" mapstructure:"orphan_threshold"`
	// Extensions restrict analysis to matching tracked files.
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	// IgnoreFile holds gitignore-style patterns, one per line.
	IgnoreFile string `yaml:"ignore_file" mapstructure:"ignore_file"`
	// Workers bounds the blame pool; 0 means GOMAXPROCS.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// BlameTimeout bounds a single file's blame subprocess.
	BlameTimeout time.Duration `yaml:"blame_timeout" mapstructure:"blame_timeout"`
	// CouplingThreshold is the minimum average coupling percentage reported.
	CouplingThreshold float64 `yaml:"coupling_threshold" mapstructure:"coupling_threshold"`
	// FrictionMinAuthors flags files touched by at least this many authors.
	FrictionMinAuthors int `yaml:"friction_min_authors" mapstructure:"friction_min_authors"`
	// FrictionSince windows the friction walk (any git-approxidate syntax).
	FrictionSince string `yaml:"friction_since" mapstructure:"friction_since"`
	// ActivityWindowDays is the trailing window for the activity summary.
	ActivityWindowDays int `yaml:"activity_window_days" mapstructure:"activity_window_days"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "sqlite" or "postgres"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	LocalPath   string `yaml:"local_path" mapstructure:"local_path"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

type LLMConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"` // "openai", "gemini", "none"
	OpenAIKey   string `yaml:"openai_key" mapstructure:"openai_key"`
	OpenAIModel string `yaml:"openai_model" mapstructure:"openai_model"`
	GeminiKey   string `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel string `yaml:"gemini_model" mapstructure:"gemini_model"`
}

type GraphConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

type CacheConfig struct {
	Directory string `yaml:"directory" mapstructure:"directory"`
	Disabled  bool   `yaml:"disabled" mapstructure:"disabled"`
}

// Dir is the per-user directory for config, cache, and local storage.
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".gitmetrics")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			OrphanThreshold:    0.5,
			Extensions:         gitrepo.DefaultExtensions,
			Workers:            0,
			BlameTimeout:       30 * time.Second,
			CouplingThreshold:  30,
			FrictionMinAuthors: 5,
			FrictionSince:      "1 year ago",
			ActivityWindowDays: 30,
		},
		Storage: StorageConfig{
			Type:      "sqlite",
			LocalPath: filepath.Join(Dir(), "runs.db"),
		},
		GitHub: GitHubConfig{
			RateLimit: 10,
		},
		LLM: LLMConfig{
			Provider:    "none",
			OpenAIModel: "gpt-4o-mini",
			GeminiModel: "gemini-2.0-flash",
		},
		Graph: GraphConfig{
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Database: "neo4j",
		},
		Cache: CacheConfig{
			Directory: Dir(),
		},
	}
}

// Load reads configuration from the given file, or from the standard search
// locations when path is empty, layering env files and variables on top.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("llm", cfg.LLM)
	v.SetDefault("graph", cfg.Graph)
	v.SetDefault("cache", cfg.Cache)

	v.SetEnvPrefix("GITMETRICS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".gitmetrics")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, defaults apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeEnvFile := filepath.Join(Dir(), ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	// GitHub
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	} else if token := os.Getenv("GH_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}

	// LLM keys. Precedence: env var, then keychain, then config file value.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	} else if cfg.LLM.OpenAIKey == "" {
		km := NewKeyringManager(nil)
		if km.IsAvailable() {
			if keychainKey, err := km.GetOpenAIKey(); err == nil && keychainKey != "" {
				cfg.LLM.OpenAIKey = keychainKey
			}
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.GeminiKey = key
	} else if cfg.LLM.GeminiKey == "" {
		km := NewKeyringManager(nil)
		if km.IsAvailable() {
			if keychainKey, err := km.GetGeminiKey(); err == nil && keychainKey != "" {
				cfg.LLM.GeminiKey = keychainKey
			}
		}
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.LLM.OpenAIModel = model
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.LLM.GeminiModel = model
	}

	// Storage
	if storageType := os.Getenv("STORAGE_TYPE"); storageType != "" {
		cfg.Storage.Type = storageType
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if path := os.Getenv("LOCAL_DB_PATH"); path != "" {
		cfg.Storage.LocalPath = expandPath(path)
	}

	// Graph
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		cfg.Graph.User = user
	}
	if password := os.Getenv("NEO4J_PASSWORD"); password != "" {
		cfg.Graph.Password = password
	}
	if database := os.Getenv("NEO4J_DATABASE"); database != "" {
		cfg.Graph.Database = database
	}

	// Cache
	if dir := os.Getenv("CACHE_DIRECTORY"); dir != "" {
		cfg.Cache.Directory = expandPath(dir)
	}
	if disabled := os.Getenv("CACHE_DISABLED"); disabled != "" {
		cfg.Cache.Disabled = disabled == "true" || disabled == "1"
	}

	// Analysis
	if threshold := os.Getenv("ORPHAN_THRESHOLD"); threshold != "" {
		if value, err := strconv.ParseFloat(threshold, 64); err == nil {
			cfg.Analysis.OrphanThreshold = value
		}
	}
	if workers := os.Getenv("ANALYSIS_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			cfg.Analysis.Workers = n
		}
	}
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save writes the configuration to the given path as YAML.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("analysis", c.Analysis)
	v.Set("storage", c.Storage)
	v.Set("github", c.GitHub)
	v.Set("llm", c.LLM)
	v.Set("graph", c.Graph)
	v.Set("cache", c.Cache)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
