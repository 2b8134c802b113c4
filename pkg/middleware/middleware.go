package middleware

import "github.com/gofiber/fiber/v2"

const RequestIDKey = "request_id"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	FunctionKeyMiddleware  Middleware
	AdminAuthMiddleware    Middleware
	MetricsMiddleware      Middleware
	PanicRecoverMiddleware Middleware
	RequestIDMiddleware    Middleware
}
