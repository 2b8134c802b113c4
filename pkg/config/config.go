package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Store         StoreConfig         `mapstructure:"store"`
	ContentSafety ContentSafetyConfig `mapstructure:"content_safety"`
	Checks        ChecksConfig        `mapstructure:"checks"`
	LoadBalancing LoadBalancingConfig `mapstructure:"load_balancing"`
	Completion    CompletionConfig    `mapstructure:"completion"`
	Secrets       SecretsConfig       `mapstructure:"secrets"`
	Audit         AuditConfig         `mapstructure:"audit"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	FunctionKey string `mapstructure:"function_key"`
	SecretKey   string `mapstructure:"secret_key"`
}

type MetricsConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	EnableLatency       bool `mapstructure:"enable_latency"`
	EnableCheckOutcomes bool `mapstructure:"enable_check_outcomes"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type ContentSafetyConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	APIVersion    string        `mapstructure:"api_version"`
	APIKey        string        `mapstructure:"api_key"`
	UseIdentity   bool          `mapstructure:"use_identity"`
	APIMEnabled   bool          `mapstructure:"apim_enabled"`
	APIMEndpoint  string        `mapstructure:"apim_endpoint"`
	APIMKeySecret string        `mapstructure:"apim_key_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxFailures      uint32        `mapstructure:"max_failures"`
	HalfOpenRequests uint32        `mapstructure:"half_open_requests"`
}

type ChecksConfig struct {
	ResponsibleAI bool     `mapstructure:"responsible_ai"`
	Categories    []string `mapstructure:"categories"`
	OutputType    string   `mapstructure:"output_type"`
}

type LoadBalancingConfig struct {
	Enabled        bool                `mapstructure:"enabled"`
	EmbeddingModel string              `mapstructure:"embedding_model"`
	Resources      map[string][]string `mapstructure:"resources"`
}

type CompletionConfig struct {
	Model            string `mapstructure:"model"`
	APIVersion       string `mapstructure:"api_version"`
	APIKey           string `mapstructure:"api_key"`
	UseIdentity      bool   `mapstructure:"use_identity"`
	EndpointTemplate string `mapstructure:"endpoint_template"`
}

type SecretsConfig struct {
	KeyVaultName string `mapstructure:"key_vault_name"`
}

type AuditConfig struct {
	Exporter ExporterConfig `mapstructure:"exporter"`
}

type ExporterConfig struct {
	Enabled  bool                   `mapstructure:"enabled"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

// Load reads config.yaml from configPath, ./config or the working directory
// and overlays environment variables (server.port -> SERVER_PORT). A missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaultValues(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.function_key", "")
	v.SetDefault("server.secret_key", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_check_outcomes", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "safetyhub")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("store.backend", StoreBackendRedis)
	v.SetDefault("content_safety.endpoint", "")
	v.SetDefault("content_safety.api_version", "2024-02-15-preview")
	v.SetDefault("content_safety.api_key", "")
	v.SetDefault("content_safety.use_identity", false)
	v.SetDefault("content_safety.apim_enabled", false)
	v.SetDefault("content_safety.apim_endpoint", "")
	v.SetDefault("content_safety.apim_key_secret", "apimSubscriptionKey")
	v.SetDefault("content_safety.timeout", 30*time.Second)
	v.SetDefault("content_safety.breaker.timeout", 30*time.Second)
	v.SetDefault("content_safety.breaker.max_failures", 5)
	v.SetDefault("content_safety.breaker.half_open_requests", 100)
	v.SetDefault("checks.responsible_ai", false)
	v.SetDefault("checks.categories", []string{"Hate", "SelfHarm", "Sexual", "Violence"})
	v.SetDefault("checks.output_type", "FourSeverityLevels")
	v.SetDefault("load_balancing.enabled", false)
	v.SetDefault("load_balancing.embedding_model", "")
	v.SetDefault("completion.model", "")
	v.SetDefault("completion.api_version", "2024-06-01")
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.use_identity", false)
	v.SetDefault("completion.endpoint_template", "https://%s.openai.azure.com")
	v.SetDefault("secrets.key_vault_name", "")
	v.SetDefault("audit.exporter.enabled", false)
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendRedis, StoreBackendPostgres:
	default:
		return fmt.Errorf("invalid store backend %q", c.Store.Backend)
	}
	if c.ContentSafety.APIMEnabled && c.ContentSafety.APIMEndpoint == "" {
		return errors.New("content_safety.apim_endpoint is required when apim is enabled")
	}
	if c.Checks.ResponsibleAI && c.Completion.Model == "" {
		return errors.New("completion.model is required when responsible_ai checks are enabled")
	}
	if c.Checks.ResponsibleAI && len(c.LoadBalancing.ResourcesFor(c.Completion.Model)) == 0 {
		return fmt.Errorf("load_balancing.resources[%s] must list at least one resource when responsible_ai checks are enabled", c.Completion.Model)
	}
	return nil
}

// ContentSafetyEndpoint is the base URL checks are sent to, the APIM
// gateway when enabled.
func (c *Config) ContentSafetyEndpoint() string {
	if c.ContentSafety.APIMEnabled {
		return c.ContentSafety.APIMEndpoint
	}
	return c.ContentSafety.Endpoint
}

// ResourcesFor returns the configured resources for model.
func (c *LoadBalancingConfig) ResourcesFor(model string) []string {
	return c.Resources[model]
}
