package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/thoughtful-solutions/metrics/internal/errors"
)

// CredentialManager resolves credentials through a priority chain:
// environment variables, then the OS keychain, then the credentials file,
// then an interactive prompt where the mode allows one.
type CredentialManager struct {
	mode       DeploymentMode
	keyring    *KeyringManager
	configPath string
}

// Credentials is the on-disk credentials file shape.
type Credentials struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GitHubToken  string `yaml:"github_token"`
}

// NewCredentialManager creates a credential manager for the detected mode.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		mode:       DetectMode(),
		keyring:    NewKeyringManager(nil),
		configPath: filepath.Join(Dir(), "credentials.yaml"),
	}
}

// GetOpenAIKey retrieves the OpenAI API key through the priority chain.
func (cm *CredentialManager) GetOpenAIKey() (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetOpenAIKey(); err == nil && key != "" {
			return key, nil
		}
	}

	if creds, err := cm.loadCredentialsFile(); err == nil && creds.OpenAIAPIKey != "" {
		return creds.OpenAIAPIKey, nil
	}

	if cm.mode.AllowsInteractivePrompts() && isInteractive() {
		fmt.Println("OpenAI API key not found.")
		fmt.Println("Create one at: https://platform.openai.com/api-keys")
		fmt.Print("Enter OpenAI API key: ")
		key, err := cm.readSecurely()
		if err != nil {
			return "", err
		}
		if key == "" {
			return "", errors.ConfigError("OpenAI API key is required")
		}
		if !strings.HasPrefix(key, "sk-") {
			return "", errors.ValidationError("OpenAI API key should start with 'sk-'")
		}
		cm.storeCredential(func() error { return cm.keyring.SetOpenAIKey(key) },
			Credentials{OpenAIAPIKey: key})
		return key, nil
	}

	return "", errors.ConfigErrorf(
		"OPENAI_API_KEY not found. Set it via:\n"+
			"  1. Environment variable: export OPENAI_API_KEY=sk-...\n"+
			"  2. Run: gitmetrics configure\n"+
			"  3. Credentials file: %s", cm.configPath)
}

// GetGeminiKey retrieves the Gemini API key through the priority chain.
func (cm *CredentialManager) GetGeminiKey() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}

	if cm.keyring.IsAvailable() {
		if key, err := cm.keyring.GetGeminiKey(); err == nil && key != "" {
			return key, nil
		}
	}

	if creds, err := cm.loadCredentialsFile(); err == nil && creds.GeminiAPIKey != "" {
		return creds.GeminiAPIKey, nil
	}

	return "", errors.ConfigErrorf(
		"GEMINI_API_KEY not found. Set it via:\n"+
			"  1. Environment variable: export GEMINI_API_KEY=...\n"+
			"  2. Run: gitmetrics configure\n"+
			"  3. Credentials file: %s", cm.configPath)
}

// GetGitHubToken retrieves the GitHub token. The token is optional for
// public repositories, so an empty result with a nil error means "no token".
func (cm *CredentialManager) GetGitHubToken() (string, error) {
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			return token, nil
		}
	}

	if cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return token, nil
		}
	}

	if creds, err := cm.loadCredentialsFile(); err == nil && creds.GitHubToken != "" {
		return creds.GitHubToken, nil
	}

	if cm.mode.AllowsInteractivePrompts() && isInteractive() {
		fmt.Println("GitHub token not found (optional, needed for private repos and rate limits).")
		fmt.Println("Create one at: https://github.com/settings/tokens")
		fmt.Print("Enter GitHub token (or press Enter to skip): ")
		token, _ := cm.readSecurely()
		if token != "" {
			if cm.keyring.IsAvailable() {
				cm.keyring.SetGitHubToken(token)
			}
			return token, nil
		}
	}

	return "", nil
}

// SaveCredentials stores credentials in the keychain, falling back to the
// credentials file when no keychain is reachable.
func (cm *CredentialManager) SaveCredentials(creds Credentials) error {
	if cm.keyring.IsAvailable() {
		if creds.OpenAIAPIKey != "" {
			if err := cm.keyring.SetOpenAIKey(creds.OpenAIAPIKey); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh,
					"failed to save OpenAI API key to keychain")
			}
		}
		if creds.GeminiAPIKey != "" {
			if err := cm.keyring.SetGeminiKey(creds.GeminiAPIKey); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh,
					"failed to save Gemini API key to keychain")
			}
		}
		if creds.GitHubToken != "" {
			if err := cm.keyring.SetGitHubToken(creds.GitHubToken); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh,
					"failed to save GitHub token to keychain")
			}
		}
		return nil
	}

	return cm.saveCredentialsFile(creds)
}

// storeCredential tries the keychain first and falls back to the file.
func (cm *CredentialManager) storeCredential(keychainSet func() error, creds Credentials) {
	if cm.keyring.IsAvailable() {
		if err := keychainSet(); err == nil {
			fmt.Println("Saved to keychain")
			return
		}
	}
	if err := cm.saveCredentialsFile(creds); err == nil {
		fmt.Printf("Saved to %s\n", cm.configPath)
	}
}

func (cm *CredentialManager) loadCredentialsFile() (*Credentials, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (cm *CredentialManager) saveCredentialsFile(creds Credentials) error {
	// Merge with anything already on disk so saving one key keeps the rest.
	if existing, err := cm.loadCredentialsFile(); err == nil {
		if creds.OpenAIAPIKey == "" {
			creds.OpenAIAPIKey = existing.OpenAIAPIKey
		}
		if creds.GeminiAPIKey == "" {
			creds.GeminiAPIKey = existing.GeminiAPIKey
		}
		if creds.GitHubToken == "" {
			creds.GitHubToken = existing.GitHubToken
		}
	}

	if err := os.MkdirAll(filepath.Dir(cm.configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(cm.configPath, data, 0600)
}

// readSecurely reads a secret from stdin without echoing when possible.
func (cm *CredentialManager) readSecurely() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// GetMode returns the deployment mode the manager detected.
func (cm *CredentialManager) GetMode() DeploymentMode {
	return cm.mode
}

// GetConfigPath returns the credentials file path.
func (cm *CredentialManager) GetConfigPath() string {
	return cm.configPath
}
