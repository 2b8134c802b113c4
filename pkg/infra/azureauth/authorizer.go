// Package azureauth attaches Azure credentials to outbound requests, either
// as a subscription key or as an Azure AD bearer token.
package azureauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"
	SubscriptionKeyHeader  = "Ocp-Apim-Subscription-Key"
)

var ErrMissingKey = errors.New("subscription key is empty")

//go:generate mockery --name=Authorizer --dir=. --output=./mocks --filename=authorizer_mock.go --case=underscore --with-expecter
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request) error
}

type keyAuthorizer struct {
	key string
}

func NewKeyAuthorizer(key string) Authorizer {
	return &keyAuthorizer{key: key}
}

func (a *keyAuthorizer) Authorize(_ context.Context, req *http.Request) error {
	if a.key == "" {
		return ErrMissingKey
	}
	req.Header.Set(SubscriptionKeyHeader, a.key)
	return nil
}

type tokenAuthorizer struct {
	credential azcore.TokenCredential
	scope      string
}

func NewTokenAuthorizer(credential azcore.TokenCredential, scope string) Authorizer {
	return &tokenAuthorizer{
		credential: credential,
		scope:      scope,
	}
}

func (a *tokenAuthorizer) Authorize(ctx context.Context, req *http.Request) error {
	token, err := a.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{a.scope},
	})
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	return nil
}

// NewDefaultCredential builds the DefaultAzureCredential chain (environment,
// workload identity, managed identity, Azure CLI).
func NewDefaultCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}
	return cred, nil
}
