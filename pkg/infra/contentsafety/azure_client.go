package contentsafety

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/azureauth"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAPIVersion = "2024-02-15-preview"

	opDetectGroundedness      = "text:detectGroundedness"
	opShieldPrompt            = "text:shieldPrompt"
	opDetectJailbreak         = "text:detectJailbreak"
	opDetectProtectedMaterial = "text:detectProtectedMaterial"
	opAnalyzeText             = "text:analyze"

	maxResponseSize = 1 << 20

	DefaultBreakerTimeout          = 30 * time.Second
	DefaultBreakerMaxFailures      = 5
	DefaultBreakerHalfOpenRequests = 100
)

var (
	ErrFailedContentSafetyCall = errors.New("content safety service call failed")
	ErrMalformedResponse       = errors.New("malformed content safety response")
)

type azureClient struct {
	endpoint       string
	apiVersion     string
	client         httpx.Client
	authorizer     azureauth.Authorizer
	circuitBreaker httpx.CircuitBreaker
	logger         *logrus.Logger
}

func NewClient(
	endpoint string,
	authorizer azureauth.Authorizer,
	logger *logrus.Logger,
	opts ...Option,
) Client {
	c := &azureClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiVersion: DefaultAPIVersion,
		authorizer: authorizer,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = httpx.NewFastHTTPClient(httpx.WithTimeout(30 * time.Second))
	}
	if c.circuitBreaker == nil {
		c.circuitBreaker = NewCircuitBreaker(
			DefaultBreakerTimeout,
			DefaultBreakerMaxFailures,
			DefaultBreakerHalfOpenRequests,
			logger,
		)
	}
	return c
}

func (c *azureClient) DetectGroundedness(ctx context.Context, req GroundednessRequest) (*GroundednessResponse, error) {
	resp, err := call[GroundednessResponse](ctx, c, opDetectGroundedness, req)
	if err != nil {
		return nil, err
	}
	if resp.UngroundedDetected == nil {
		return nil, fmt.Errorf("%w: %s missing ungroundedDetected", ErrMalformedResponse, opDetectGroundedness)
	}
	return resp, nil
}

func (c *azureClient) ShieldPrompt(ctx context.Context, req ShieldPromptRequest) (*ShieldPromptResponse, error) {
	if req.Documents == nil {
		req.Documents = []string{}
	}
	return call[ShieldPromptResponse](ctx, c, opShieldPrompt, req)
}

func (c *azureClient) DetectJailbreak(ctx context.Context, req TextRequest) (*JailbreakResponse, error) {
	resp, err := call[JailbreakResponse](ctx, c, opDetectJailbreak, req)
	if err != nil {
		return nil, err
	}
	if resp.JailbreakAnalysis == nil {
		return nil, fmt.Errorf("%w: %s missing jailbreakAnalysis", ErrMalformedResponse, opDetectJailbreak)
	}
	return resp, nil
}

func (c *azureClient) DetectProtectedMaterial(ctx context.Context, req TextRequest) (*ProtectedMaterialResponse, error) {
	resp, err := call[ProtectedMaterialResponse](ctx, c, opDetectProtectedMaterial, req)
	if err != nil {
		return nil, err
	}
	if resp.ProtectedMaterialAnalysis == nil {
		return nil, fmt.Errorf("%w: %s missing protectedMaterialAnalysis", ErrMalformedResponse, opDetectProtectedMaterial)
	}
	return resp, nil
}

func (c *azureClient) AnalyzeText(ctx context.Context, req AnalyzeTextRequest) (*AnalyzeTextResponse, error) {
	return call[AnalyzeTextResponse](ctx, c, opAnalyzeText, req)
}

func call[T any](ctx context.Context, c *azureClient, op string, payload any) (*T, error) {
	var result *T
	var err error

	err = c.circuitBreaker.Execute(func() error {
		result, err = execute[T](ctx, c, op, payload)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).WithField("operation", op).Error("content safety call failed (circuit breaker)")
		}
		return nil, err
	}
	return result, nil
}

func execute[T any](ctx context.Context, c *azureClient, op string, payload any) (*T, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.operationURL(op), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorizer.Authorize(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to authorize %s request: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, fmt.Errorf("%s aborted: %w", op, cause)
		}
		return nil, fmt.Errorf("failed to call %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s response read error: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"operation":   op,
			"status_code": resp.StatusCode,
		}).Error("content safety returned non-200 status")
		return nil, &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: string(data)}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, op, err)
	}
	return &out, nil
}

func (c *azureClient) operationURL(op string) string {
	q := url.Values{}
	q.Set("api-version", c.apiVersion)
	return c.endpoint + "/contentsafety/" + op + "?" + q.Encode()
}
