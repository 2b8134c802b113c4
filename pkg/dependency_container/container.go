package dependency_container

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/NeuralTrust/SafetyHub/pkg/app/audit"
	"github.com/NeuralTrust/SafetyHub/pkg/app/safety"
	"github.com/NeuralTrust/SafetyHub/pkg/app/selector"
	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/NeuralTrust/SafetyHub/pkg/dispatcher"
	"github.com/NeuralTrust/SafetyHub/pkg/domain/conversation"
	"github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool"
	handlers "github.com/NeuralTrust/SafetyHub/pkg/handlers/http"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/azureauth"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/cache"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/completion"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/contentsafety"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/database"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/httpx"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/repository"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/secrets"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/SafetyHub/pkg/middleware"
	"github.com/sirupsen/logrus"
)

const secretFetchTimeout = 10 * time.Second

type Container struct {
	Cache                  cache.Client
	DB                     *database.DB
	ResourcePoolRepository resourcepool.Repository
	ConversationRepository conversation.Repository
	ContentSafetyClient    contentsafety.Client
	CompletionClient       completion.Client
	Selector               selector.Selector
	SafetyService          safety.Service
	AuditRecorder          audit.Recorder
	AuditExporter          *kafka.Exporter
	JWTManager             jwt.Manager
	MiddlewareTransport    *middleware.Transport
	HandlerTransport       *handlers.HandlerTransport
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	c := &Container{}

	if err := c.initStore(cfg, di.Logger); err != nil {
		return nil, err
	}

	var credential azcore.TokenCredential
	if cfg.ContentSafety.UseIdentity || cfg.Completion.UseIdentity || cfg.Secrets.KeyVaultName != "" {
		cred, err := azureauth.NewDefaultCredential()
		if err != nil {
			return nil, err
		}
		credential = cred
	}

	authorizer, err := contentSafetyAuthorizer(cfg, credential)
	if err != nil {
		return nil, err
	}

	c.ContentSafetyClient = contentsafety.NewClient(
		cfg.ContentSafetyEndpoint(),
		authorizer,
		di.Logger,
		contentsafety.WithAPIVersion(cfg.ContentSafety.APIVersion),
		contentsafety.WithHTTPClient(httpx.NewFastHTTPClient(httpx.WithTimeout(cfg.ContentSafety.Timeout))),
		contentsafety.WithCircuitBreaker(
			contentsafety.NewCircuitBreaker(
				cfg.ContentSafety.Breaker.Timeout,
				cfg.ContentSafety.Breaker.MaxFailures,
				cfg.ContentSafety.Breaker.HalfOpenRequests,
				di.Logger,
			),
		),
	)

	c.Selector = selector.NewSelector(cfg.LoadBalancing, c.ResourcePoolRepository, di.Logger)

	if cfg.Checks.ResponsibleAI {
		var completionCred azcore.TokenCredential
		if cfg.Completion.UseIdentity {
			completionCred = credential
		}
		c.CompletionClient = completion.NewAzureOpenAIClient(
			completion.Config{
				Model:            cfg.Completion.Model,
				APIVersion:       cfg.Completion.APIVersion,
				APIKey:           cfg.Completion.APIKey,
				EndpointTemplate: cfg.Completion.EndpointTemplate,
				Resources:        cfg.LoadBalancing.ResourcesFor(cfg.Completion.Model),
			},
			c.Selector,
			completionCred,
			di.Logger,
		)
	}

	c.SafetyService, err = safety.NewService(
		dispatcher.New(di.Logger),
		safety.QuestionChecks(cfg.Checks, c.ContentSafetyClient),
		safety.AnswerChecks(cfg.Checks, c.ContentSafetyClient, c.CompletionClient),
		di.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize safety service: %w", err)
	}

	var recorderOpts []audit.Option
	if cfg.Audit.Exporter.Enabled {
		exporter, err := kafka.NewExporter(cfg.Audit.Exporter.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit exporter: %w", err)
		}
		c.AuditExporter = exporter
		recorderOpts = append(recorderOpts, audit.WithExporter(exporter))
	}
	c.AuditRecorder = audit.NewRecorder(c.ConversationRepository, di.Logger, recorderOpts...)

	c.JWTManager = jwt.NewJwtManager(&cfg.Server)

	c.MiddlewareTransport = &middleware.Transport{
		FunctionKeyMiddleware:  middleware.NewFunctionKeyMiddleware(di.Logger, cfg.Server.FunctionKey),
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(di.Logger, c.JWTManager),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(di.Logger),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
	}

	c.HandlerTransport = &handlers.HandlerTransport{
		GetVersionHandler:      handlers.NewGetVersionHandler(di.Logger),
		CheckQuestionHandler:   handlers.NewCheckQuestionHandler(di.Logger, c.SafetyService),
		CheckAnswerHandler:     handlers.NewCheckAnswerHandler(di.Logger, c.SafetyService),
		AuditHandler:           handlers.NewAuditHandler(di.Logger, c.AuditRecorder),
		GetConversationHandler: handlers.NewGetConversationHandler(di.Logger, c.AuditRecorder),
		GetResourcePoolHandler: handlers.NewGetResourcePoolHandler(di.Logger, c.ResourcePoolRepository),
	}

	return c, nil
}

func (c *Container) initStore(cfg *config.Config, logger *logrus.Logger) error {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		db, err := database.NewDB(logger, &database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.ResourcePoolRepository = repository.NewPostgresResourcePoolRepository(db.DB)
		c.ConversationRepository = repository.NewPostgresConversationRepository(db.DB)
	default:
		client, err := cache.NewClient(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TLS:      cfg.Redis.TLS,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		c.Cache = client
		c.ResourcePoolRepository = repository.NewRedisResourcePoolRepository(client)
		c.ConversationRepository = repository.NewRedisConversationRepository(client)
	}
	return nil
}

// contentSafetyAuthorizer picks, in order: the APIM subscription key from the
// secret store, an Azure AD token, or the static resource key.
func contentSafetyAuthorizer(cfg *config.Config, credential azcore.TokenCredential) (azureauth.Authorizer, error) {
	cs := cfg.ContentSafety
	switch {
	case cs.APIMEnabled:
		provider, err := secretProvider(cfg, credential)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), secretFetchTimeout)
		defer cancel()
		key, err := provider.Get(ctx, cs.APIMKeySecret)
		if err != nil {
			return nil, fmt.Errorf("failed to load apim subscription key: %w", err)
		}
		return azureauth.NewKeyAuthorizer(key), nil
	case cs.UseIdentity:
		return azureauth.NewTokenAuthorizer(credential, azureauth.CognitiveServicesScope), nil
	default:
		return azureauth.NewKeyAuthorizer(cs.APIKey), nil
	}
}

func secretProvider(cfg *config.Config, credential azcore.TokenCredential) (secrets.Provider, error) {
	if cfg.Secrets.KeyVaultName != "" {
		return secrets.NewKeyVaultProvider(cfg.Secrets.KeyVaultName, credential)
	}
	return secrets.NewStaticProvider(map[string]string{
		cfg.ContentSafety.APIMKeySecret: cfg.ContentSafety.APIKey,
	}), nil
}

// Close releases the store connections and flushes the audit exporter.
func (c *Container) Close() {
	if c.AuditExporter != nil {
		c.AuditExporter.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.RedisClient().Close()
	}
}
