package http

import (
	"github.com/NeuralTrust/SafetyHub/pkg/app/audit"
	"github.com/NeuralTrust/SafetyHub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type auditHandler struct {
	logger   *logrus.Logger
	recorder audit.Recorder
}

func NewAuditHandler(logger *logrus.Logger, recorder audit.Recorder) Handler {
	return &auditHandler{
		logger:   logger,
		recorder: recorder,
	}
}

// Handle @Summary Record an interaction
// @Description Appends a question, answer and check outcome to the conversation log
// @Tags Audit
// @Accept json
// @Produce json
// @Param request body request.AuditRequest true "Interaction"
// @Success 200 {object} map[string]interface{} "Conversation id"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/audit [post]
func (h *auditHandler) Handle(c *fiber.Ctx) error {
	var req request.AuditRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse audit request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload.Error()})
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	err := h.recorder.Record(
		c.Context(),
		req.ConversationID,
		req.Question,
		req.Answer,
		req.Sources,
		req.SecurityChecks,
	)
	if err != nil {
		h.logger.WithError(err).WithField("conversation_id", req.ConversationID).Error("failed to record interaction")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record interaction"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"conversation_id": req.ConversationID})
}
