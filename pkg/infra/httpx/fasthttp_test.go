package httpx_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/infra/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHTTPClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contentsafety/text:detectJailbreak", r.URL.Path)
		assert.Equal(t, "2024-02-15-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "secret", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "safetyhub-test", r.Header.Get("User-Agent"))

		body, _ := io.ReadAll(r.Body) //nolint:errcheck
		assert.JSONEq(t, `{"text":"hello"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", "abc")
		_, _ = w.Write([]byte(`{"jailbreakAnalysis":{"detected":false}}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := httpx.NewFastHTTPClient(httpx.WithTimeout(5*time.Second), httpx.WithUserAgent("safetyhub-test"))

	req, err := http.NewRequestWithContext(
		context.Background(),
		http.MethodPost,
		server.URL+"/contentsafety/text:detectJailbreak?api-version=2024-02-15-preview",
		strings.NewReader(`{"text":"hello"}`),
	)
	require.NoError(t, err)
	req.Header.Set("Ocp-Apim-Subscription-Key", "secret")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", resp.Header.Get("X-Request-Id"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jailbreakAnalysis":{"detected":false}}`, string(body))
}

func TestFastHTTPClient_Do_Unreachable(t *testing.T) {
	client := httpx.NewFastHTTPClient(httpx.WithTimeout(time.Second))

	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:1/unreachable", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	assert.Error(t, err)
	assert.Nil(t, resp)
}
