package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain.
	KeyringService = "gitmetrics"

	// KeyringOpenAIItem is the keychain item for the OpenAI API key.
	KeyringOpenAIItem = "openai-api-key"

	// KeyringGeminiItem is the keychain item for the Gemini API key.
	KeyringGeminiItem = "gemini-api-key"

	// KeyringGitHubItem is the keychain item for the GitHub token.
	KeyringGitHubItem = "github-token"
)

// KeyringManager stores credentials in the OS keychain. On macOS that is
// Keychain Access, on Windows Credential Manager, on Linux the Secret
// Service (libsecret).
type KeyringManager struct {
	logger *logrus.Logger
}

// NewKeyringManager creates a keyring manager. A nil logger gets a default.
func NewKeyringManager(logger *logrus.Logger) *KeyringManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &KeyringManager{logger: logger}
}

func (km *KeyringManager) get(item string) (string, error) {
	value, err := keyring.Get(KeyringService, item)
	if err == keyring.ErrNotFound {
		// Not set yet, not an error.
		return "", nil
	}
	if err != nil {
		km.logger.WithError(err).WithField("item", item).Debug("keychain read failed")
		return "", fmt.Errorf("failed to read %s from OS keychain: %w", item, err)
	}
	return value, nil
}

func (km *KeyringManager) set(item, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", item)
	}
	if err := keyring.Set(KeyringService, item, value); err != nil {
		km.logger.WithError(err).WithField("item", item).Error("keychain write failed")
		return fmt.Errorf("failed to save %s to OS keychain: %w", item, err)
	}
	km.logger.WithField("item", item).Debug("credential saved to keychain")
	return nil
}

func (km *KeyringManager) delete(item string) error {
	err := keyring.Delete(KeyringService, item)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s from OS keychain: %w", item, err)
	}
	return nil
}

// GetOpenAIKey retrieves the OpenAI API key; empty when not set.
func (km *KeyringManager) GetOpenAIKey() (string, error) {
	return km.get(KeyringOpenAIItem)
}

// SetOpenAIKey stores the OpenAI API key.
func (km *KeyringManager) SetOpenAIKey(key string) error {
	return km.set(KeyringOpenAIItem, key)
}

// DeleteOpenAIKey removes the OpenAI API key.
func (km *KeyringManager) DeleteOpenAIKey() error {
	return km.delete(KeyringOpenAIItem)
}

// GetGeminiKey retrieves the Gemini API key; empty when not set.
func (km *KeyringManager) GetGeminiKey() (string, error) {
	return km.get(KeyringGeminiItem)
}

// SetGeminiKey stores the Gemini API key.
func (km *KeyringManager) SetGeminiKey(key string) error {
	return km.set(KeyringGeminiItem, key)
}

// DeleteGeminiKey removes the Gemini API key.
func (km *KeyringManager) DeleteGeminiKey() error {
	return km.delete(KeyringGeminiItem)
}

// GetGitHubToken retrieves the GitHub token; empty when not set.
func (km *KeyringManager) GetGitHubToken() (string, error) {
	return km.get(KeyringGitHubItem)
}

// SetGitHubToken stores the GitHub token.
func (km *KeyringManager) SetGitHubToken(token string) error {
	return km.set(KeyringGitHubItem, token)
}

// DeleteGitHubToken removes the GitHub token.
func (km *KeyringManager) DeleteGitHubToken() error {
	return km.delete(KeyringGitHubItem)
}

// IsAvailable reports whether the OS keychain can be reached. Headless
// systems (CI runners, containers) usually cannot.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "availability-probe")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.WithError(err).Debug("keychain not available")
		return false
	}
	return true
}

// MaskKey renders a credential for display, keeping only the edges.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", key[:7], key[len(key)-4:])
}
