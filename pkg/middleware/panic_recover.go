package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger *logrus.Logger
}

func NewPanicRecoverMiddleware(logger *logrus.Logger) Middleware {
	return &panicRecoverMiddleware{logger: logger}
}

// Middleware turns a handler panic into a 500 that carries the request id.
func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestID, _ := c.Locals(RequestIDKey).(string)
			m.logger.WithFields(logrus.Fields{
				"panic":      fmt.Sprint(r),
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
				"stack":      string(debug.Stack()),
			}).Error("recovered from handler panic")

			body := fiber.Map{"error": "Internal server error"}
			if requestID != "" {
				body["request_id"] = requestID
			}
			c.Response().ResetBody()
			err = c.Status(fiber.StatusInternalServerError).JSON(body)
		}()

		return c.Next()
	}
}
