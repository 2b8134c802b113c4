package completion_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/completion"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type firstSelector struct {
	calls atomic.Int32
	err   error
}

func (s *firstSelector) Select(_ context.Context, _ string, configured []string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return configured[0], nil
}

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"fair\": true, \"reason\": \"\"}"}}],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestComplete(t *testing.T) {
	var gotPath, gotVersion, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("Api-Key")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatResponse))
	}))
	defer srv.Close()

	selector := &firstSelector{}
	c := completion.NewAzureOpenAIClient(completion.Config{
		Model:      "gpt-4o",
		APIVersion: "2024-06-01",
		APIKey:     "azure-key",
		Resources:  []string{srv.URL},
	}, selector, nil, newLogger(), option.WithMaxRetries(0))

	out, err := c.Complete(context.Background(), "be fair", "The answer")

	require.NoError(t, err)
	assert.Equal(t, `{"fair": true, "reason": ""}`, out)
	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"))
	assert.Equal(t, "2024-06-01", gotVersion)
	assert.Equal(t, "azure-key", gotKey)
	assert.Len(t, gotBody["messages"], 2)
	assert.Equal(t, int32(1), selector.calls.Load())
}

func TestComplete_SelectorFailure(t *testing.T) {
	selectErr := errors.New("store down")
	c := completion.NewAzureOpenAIClient(completion.Config{
		Model:     "gpt-4o",
		APIKey:    "k",
		Resources: []string{"res-a"},
	}, &firstSelector{err: selectErr}, nil, newLogger())

	_, err := c.Complete(context.Background(), "", "x")

	assert.ErrorIs(t, err, selectErr)
}

func TestComplete_NoCredentials(t *testing.T) {
	c := completion.NewAzureOpenAIClient(completion.Config{
		Model:            "gpt-4o",
		EndpointTemplate: "https://%s.openai.azure.com",
		Resources:        []string{"res-a"},
	}, &firstSelector{}, nil, newLogger())

	_, err := c.Complete(context.Background(), "", "x")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "https://res-a.openai.azure.com")
}
