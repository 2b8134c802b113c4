package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

var ErrSecretNotFound = errors.New("secret not found")

type Provider interface {
	Get(ctx context.Context, name string) (string, error)
}

type keyVaultProvider struct {
	client *azsecrets.Client
}

func NewKeyVaultProvider(vaultName string, credential azcore.TokenCredential) (Provider, error) {
	if vaultName == "" {
		return nil, errors.New("key vault name is required")
	}
	client, err := azsecrets.NewClient(fmt.Sprintf("https://%s.vault.azure.net", vaultName), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create key vault client: %w", err)
	}
	return &keyVaultProvider{client: client}, nil
}

func (p *keyVaultProvider) Get(ctx context.Context, name string) (string, error) {
	// empty version selects the latest
	resp, err := p.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return *resp.Value, nil
}

type staticProvider struct {
	values map[string]string
}

// NewStaticProvider serves secrets already present in configuration.
func NewStaticProvider(values map[string]string) Provider {
	return &staticProvider{values: values}
}

func (p *staticProvider) Get(_ context.Context, name string) (string, error) {
	v, ok := p.values[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return v, nil
}
