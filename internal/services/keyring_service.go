package services

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "sitesmith"

// envKeyByProvider maps provider ids to the environment variable consulted
// when the keyring has no entry.
var envKeyByProvider = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

type KeyringService struct{}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

// StoreAPIKey saves an API key for a provider in the OS keyring.
func (s *KeyringService) StoreAPIKey(provider, apiKey string) error {
	if strings.TrimSpace(provider) == "" {
		return errors.New("provider is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(keyringServiceName, provider, apiKey)
}

// GetAPIKey returns the stored key for a provider, falling back to the
// provider's environment variable when the keyring has none.
func (s *KeyringService) GetAPIKey(provider string) (string, error) {
	if strings.TrimSpace(provider) == "" {
		return "", errors.New("provider is required")
	}
	key, err := keyring.Get(keyringServiceName, provider)
	if err == nil && key != "" {
		return key, nil
	}
	if envName, ok := envKeyByProvider[provider]; ok {
		if envKey := os.Getenv(envName); envKey != "" {
			return envKey, nil
		}
	}
	if err != nil {
		return "", err
	}
	return "", keyring.ErrNotFound
}

// DeleteAPIKey removes a provider's key from the keyring. Environment
// fallbacks are unaffected.
func (s *KeyringService) DeleteAPIKey(provider string) error {
	if strings.TrimSpace(provider) == "" {
		return errors.New("provider is required")
	}
	return keyring.Delete(keyringServiceName, provider)
}

// ListProviders reports which providers currently resolve to a key.
func (s *KeyringService) ListProviders() []string {
	var available []string
	for _, provider := range []string{"openai", "claude", "gemini"} {
		if key, err := s.GetAPIKey(provider); err == nil && key != "" {
			available = append(available, provider)
		}
	}
	return available
}
