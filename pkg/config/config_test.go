package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 7071
  function_key: fk
content_safety:
  endpoint: https://cs.cognitiveservices.azure.com
  api_key: key
  timeout: 5s
checks:
  responsible_ai: true
completion:
  model: gpt-4o
load_balancing:
  enabled: true
  embedding_model: text-embedding-3-large
  resources:
    gpt-4o: [res-a, res-b]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 7071, cfg.Server.Port)
	assert.Equal(t, "fk", cfg.Server.FunctionKey)
	assert.Equal(t, "2024-02-15-preview", cfg.ContentSafety.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.ContentSafety.Timeout)
	assert.Equal(t, "apimSubscriptionKey", cfg.ContentSafety.APIMKeySecret)
	assert.True(t, cfg.Checks.ResponsibleAI)
	assert.Equal(t, []string{"Hate", "SelfHarm", "Sexual", "Violence"}, cfg.Checks.Categories)
	assert.Equal(t, config.StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, []string{"res-a", "res-b"}, cfg.LoadBalancing.ResourcesFor("gpt-4o"))
	assert.Equal(t, "https://cs.cognitiveservices.azure.com", cfg.ContentSafetyEndpoint())
	assert.Equal(t, 30*time.Second, cfg.ContentSafety.Breaker.Timeout)
	assert.Equal(t, uint32(5), cfg.ContentSafety.Breaker.MaxFailures)
	assert.Equal(t, uint32(100), cfg.ContentSafety.Breaker.HalfOpenRequests)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CONTENT_SAFETY_APIM_ENABLED", "true")
	t.Setenv("CONTENT_SAFETY_APIM_ENDPOINT", "https://apim.example.com")

	cfg, err := config.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://apim.example.com", cfg.ContentSafetyEndpoint())
}

func TestLoad_Validation(t *testing.T) {
	t.Run("unknown store backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "cosmos")
		_, err := config.Load(writeConfig(t, sampleConfig))
		assert.Error(t, err)
	})

	t.Run("apim without endpoint", func(t *testing.T) {
		t.Setenv("CONTENT_SAFETY_APIM_ENABLED", "true")
		_, err := config.Load(writeConfig(t, sampleConfig))
		assert.Error(t, err)
	})

	t.Run("responsible ai without model", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "checks:\n  responsible_ai: true\n"))
		assert.Error(t, err)
	})

	t.Run("responsible ai without completion resources", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, `
checks:
  responsible_ai: true
completion:
  model: gpt-4o
load_balancing:
  resources:
    gpt-35-turbo: [res-a]
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load_balancing.resources[gpt-4o]")
	})

	t.Run("responsible ai disabled needs no resources", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "checks:\n  responsible_ai: false\n"))
		assert.NoError(t, err)
	})
}
