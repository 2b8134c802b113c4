package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const FunctionKeyHeader = "x-functions-key"

type functionKeyMiddleware struct {
	logger *logrus.Logger
	key    string
}

// NewFunctionKeyMiddleware requires the x-functions-key header to match key.
// An empty key disables the check.
func NewFunctionKeyMiddleware(logger *logrus.Logger, key string) Middleware {
	return &functionKeyMiddleware{
		logger: logger,
		key:    key,
	}
}

func (m *functionKeyMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if m.key == "" {
			return ctx.Next()
		}
		provided := ctx.Get(FunctionKeyHeader)
		if provided == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "function key required"})
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.key)) != 1 {
			m.logger.WithField("path", ctx.Path()).Debug("invalid function key")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid function key"})
		}
		return ctx.Next()
	}
}
