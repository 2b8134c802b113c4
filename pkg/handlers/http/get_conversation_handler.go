package http

import (
	"github.com/NeuralTrust/SafetyHub/pkg/app/audit"
	"github.com/NeuralTrust/SafetyHub/pkg/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getConversationHandler struct {
	logger   *logrus.Logger
	recorder audit.Recorder
}

func NewGetConversationHandler(logger *logrus.Logger, recorder audit.Recorder) Handler {
	return &getConversationHandler{
		logger:   logger,
		recorder: recorder,
	}
}

// Handle @Summary Retrieve a conversation log
// @Tags Admin
// @Param Authorization header string true "Authorization token"
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} conversation.Conversation
// @Failure 404 {object} map[string]interface{} "Conversation not found"
// @Router /api/v1/admin/conversations/{conversation_id} [get]
func (h *getConversationHandler) Handle(c *fiber.Ctx) error {
	id := c.Params("conversation_id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "conversation_id is required"})
	}

	conv, err := h.recorder.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conversation not found"})
		}
		h.logger.WithError(err).WithField("conversation_id", id).Error("failed to get conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusOK).JSON(conv)
}
