package settings

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CredentialRepository stores the Clockify API key encrypted at rest.
type CredentialRepository struct {
	store  Store
	cipher *Cipher
}

func NewCredentialRepository(store Store, cipher *Cipher) *CredentialRepository {
	if !cipher.Enabled() {
		log.Warn("No security secret configured, the Clockify API key is stored in plain text")
	}
	return &CredentialRepository{store: store, cipher: cipher}
}

// LoadAPIKey returns "" when no key was stored.
func (r *CredentialRepository) LoadAPIKey(ctx context.Context) (string, error) {
	value, err := r.store.Get(ctx, KeyApiKey)
	if errors.Is(err, ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	apiKey, err := r.cipher.Decrypt(value)
	if err != nil {
		return "", fmt.Errorf("failed to read stored API key: %w", err)
	}
	return apiKey, nil
}

func (r *CredentialRepository) SaveAPIKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return r.ClearAPIKey(ctx)
	}
	sealed, err := r.cipher.Encrypt(apiKey)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, KeyApiKey, sealed)
}

func (r *CredentialRepository) ClearAPIKey(ctx context.Context) error {
	return r.store.Delete(ctx, KeyApiKey)
}
