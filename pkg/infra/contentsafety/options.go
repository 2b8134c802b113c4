package contentsafety

import (
	"github.com/NeuralTrust/SafetyHub/pkg/infra/httpx"
)

type Option func(*azureClient)

func WithHTTPClient(client httpx.Client) Option {
	return func(c *azureClient) {
		c.client = client
	}
}

func WithCircuitBreaker(breaker httpx.CircuitBreaker) Option {
	return func(c *azureClient) {
		c.circuitBreaker = breaker
	}
}

func WithAPIVersion(version string) Option {
	return func(c *azureClient) {
		if version != "" {
			c.apiVersion = version
		}
	}
}
