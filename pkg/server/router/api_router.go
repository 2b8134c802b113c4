package router

import (
	handlers "github.com/NeuralTrust/SafetyHub/pkg/handlers/http"
	"github.com/NeuralTrust/SafetyHub/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const VersionPath = "/version"

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil || r.middlewareTransport == nil {
		return ErrInvalidTransport
	}
	mw := r.middlewareTransport
	h := r.handlerTransport

	router.Get(VersionPath, h.GetVersionHandler.Handle)

	v1 := router.Group("/api/v1",
		mw.PanicRecoverMiddleware.Middleware(),
		mw.RequestIDMiddleware.Middleware(),
		mw.MetricsMiddleware.Middleware(),
	)
	{
		checksGroup := v1.Group("/checks", mw.FunctionKeyMiddleware.Middleware())
		{
			checksGroup.Post("/question", h.CheckQuestionHandler.Handle)
			checksGroup.Post("/answer", h.CheckAnswerHandler.Handle)
		}

		v1.Post("/audit", mw.FunctionKeyMiddleware.Middleware(), h.AuditHandler.Handle)

		admin := v1.Group("/admin", mw.AdminAuthMiddleware.Middleware())
		{
			admin.Get("/conversations/:conversation_id", h.GetConversationHandler.Handle)
			admin.Get("/pools/:model", h.GetResourcePoolHandler.Handle)
		}
	}
	return nil
}
