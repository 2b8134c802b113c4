package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var ErrInvalidJsonPayload = errors.New("invalid JSON payload")

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	GetVersionHandler Handler

	// Checks
	CheckQuestionHandler Handler
	CheckAnswerHandler   Handler

	// Audit
	AuditHandler           Handler
	GetConversationHandler Handler

	// Load balancing
	GetResourcePoolHandler Handler
}
