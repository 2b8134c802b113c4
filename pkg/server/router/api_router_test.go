package router_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	auditMocks "github.com/NeuralTrust/SafetyHub/pkg/app/audit/mocks"
	safetyMocks "github.com/NeuralTrust/SafetyHub/pkg/app/safety/mocks"
	"github.com/NeuralTrust/SafetyHub/pkg/checks"
	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/NeuralTrust/SafetyHub/pkg/dispatcher"
	"github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool"
	poolMocks "github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool/mocks"
	handlers "github.com/NeuralTrust/SafetyHub/pkg/handlers/http"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/SafetyHub/pkg/middleware"
	"github.com/NeuralTrust/SafetyHub/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app     *fiber.App
	service *safetyMocks.Service
	pools   *poolMocks.Repository
	jwt     jwt.Manager
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := new(safetyMocks.Service)
	rec := new(auditMocks.Recorder)
	pools := new(poolMocks.Repository)
	jwtManager := jwt.NewJwtManager(&config.ServerConfig{SecretKey: "router-secret"})

	mw := &middleware.Transport{
		FunctionKeyMiddleware:  middleware.NewFunctionKeyMiddleware(logger, "fn-key"),
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(logger, jwtManager),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
	}
	h := &handlers.HandlerTransport{
		GetVersionHandler:      handlers.NewGetVersionHandler(logger),
		CheckQuestionHandler:   handlers.NewCheckQuestionHandler(logger, svc),
		CheckAnswerHandler:     handlers.NewCheckAnswerHandler(logger, svc),
		AuditHandler:           handlers.NewAuditHandler(logger, rec),
		GetConversationHandler: handlers.NewGetConversationHandler(logger, rec),
		GetResourcePoolHandler: handlers.NewGetResourcePoolHandler(logger, pools),
	}

	app := fiber.New()
	require.NoError(t, router.NewAPIRouter(mw, h).BuildRoutes(app))
	return &fixture{app: app, service: svc, pools: pools, jwt: jwtManager}
}

func TestAPIRouter_ChecksRequireFunctionKey(t *testing.T) {
	f := setup(t)
	f.service.On("CheckQuestion", mock.Anything, "hi").Return(&dispatcher.AggregatedResult{
		Results: map[checks.Name]checks.Status{checks.Jailbreak: checks.StatusPassed},
		Details: map[checks.Name]any{},
	}, nil).Once()

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/checks/question", bytes.NewBufferString(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/checks/question", bytes.NewBufferString(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.FunctionKeyHeader, "fn-key")
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	f.service.AssertExpectations(t)
}

func TestAPIRouter_AdminRequiresToken(t *testing.T) {
	f := setup(t)
	f.pools.On("Get", mock.Anything, "gpt-4o").
		Return(&resourcepool.ResourcePool{ID: "gpt-4o", Resources: []string{"A"}}, nil).Once()

	resp, err := f.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/admin/pools/gpt-4o", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := f.jwt.CreateToken("ops", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/admin/pools/gpt-4o", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIRouter_Version(t *testing.T) {
	f := setup(t)

	resp, err := f.app.Test(httptest.NewRequest(fiber.MethodGet, router.VersionPath, nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIRouter_InvalidTransport(t *testing.T) {
	err := router.NewAPIRouter(nil, nil).BuildRoutes(fiber.New())

	assert.ErrorIs(t, err, router.ErrInvalidTransport)
}
