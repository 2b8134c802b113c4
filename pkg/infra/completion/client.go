// Package completion talks to Azure OpenAI chat deployments, spreading calls
// across the configured resources through a ResourceSelector.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/azure"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var ErrEmptyCompletion = errors.New("no completions returned")

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// ResourceSelector picks which Azure resource serves the next call for a model.
type ResourceSelector interface {
	Select(ctx context.Context, model string, configured []string) (string, error)
}

type Config struct {
	Model            string
	APIVersion       string
	APIKey           string
	EndpointTemplate string
	Resources        []string
}

type azureOpenAIClient struct {
	cfg        Config
	selector   ResourceSelector
	credential azcore.TokenCredential
	logger     *logrus.Logger
	extraOpts  []option.RequestOption
	clientPool sync.Map
	sf         singleflight.Group
}

// NewAzureOpenAIClient authenticates with the API key when set, otherwise with credential.
func NewAzureOpenAIClient(
	cfg Config,
	selector ResourceSelector,
	credential azcore.TokenCredential,
	logger *logrus.Logger,
	opts ...option.RequestOption,
) Client {
	return &azureOpenAIClient{
		cfg:        cfg,
		selector:   selector,
		credential: credential,
		logger:     logger,
		extraOpts:  opts,
	}
}

func (c *azureOpenAIClient) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if c.cfg.Model == "" {
		return "", fmt.Errorf("model is required")
	}
	resource, err := c.selector.Select(ctx, c.cfg.Model, c.cfg.Resources)
	if err != nil {
		return "", fmt.Errorf("failed to select resource: %w", err)
	}

	cli, err := c.getOrCreateClient(c.endpoint(resource))
	if err != nil {
		return "", err
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("azure openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	c.logger.WithFields(logrus.Fields{
		"model":             c.cfg.Model,
		"resource":          resource,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("completion served")

	return resp.Choices[0].Message.Content, nil
}

func (c *azureOpenAIClient) endpoint(resource string) string {
	if strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://") {
		return resource
	}
	return fmt.Sprintf(c.cfg.EndpointTemplate, resource)
}

func (c *azureOpenAIClient) getOrCreateClient(endpoint string) (*openai.Client, error) {
	if v, ok := c.clientPool.Load(endpoint); ok {
		if cli, ok := v.(*openai.Client); ok {
			return cli, nil
		}
	}
	v, err, _ := c.sf.Do(endpoint, func() (any, error) {
		if v, ok := c.clientPool.Load(endpoint); ok {
			return v, nil
		}
		opts := []option.RequestOption{azure.WithEndpoint(endpoint, c.cfg.APIVersion)}
		switch {
		case c.cfg.APIKey != "":
			opts = append(opts, azure.WithAPIKey(c.cfg.APIKey))
		case c.credential != nil:
			opts = append(opts, azure.WithTokenCredential(c.credential))
		default:
			return nil, fmt.Errorf("no credentials configured for %s", endpoint)
		}
		opts = append(opts, c.extraOpts...)
		cli := openai.NewClient(opts...)
		c.clientPool.Store(endpoint, &cli)
		return &cli, nil
	})
	if err != nil {
		return nil, err
	}
	cli, ok := v.(*openai.Client)
	if !ok {
		return nil, fmt.Errorf("unexpected client type %T", v)
	}
	return cli, nil
}
