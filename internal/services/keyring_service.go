package services

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "docugen"
	apiTokenUser   = "api-token"
)

// KeyringService keeps the backend API token in the OS keychain.
type KeyringService struct {
}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreAPIToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("API token is empty")
	}
	return keyring.Set(keyringService, apiTokenUser, token)
}

// APIToken returns the stored token, or "" when none has been saved.
func (s *KeyringService) APIToken() (string, error) {
	token, err := keyring.Get(keyringService, apiTokenUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *KeyringService) HasAPIToken() bool {
	token, err := s.APIToken()
	return err == nil && token != ""
}

// DeleteAPIToken removes the token. Deleting a missing token is not an error.
func (s *KeyringService) DeleteAPIToken() error {
	err := keyring.Delete(keyringService, apiTokenUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
