package http

import (
	"errors"

	"github.com/NeuralTrust/SafetyHub/pkg/app/safety"
	"github.com/NeuralTrust/SafetyHub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type checkQuestionHandler struct {
	logger  *logrus.Logger
	service safety.Service
}

func NewCheckQuestionHandler(logger *logrus.Logger, service safety.Service) Handler {
	return &checkQuestionHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Screen a user question
// @Description Runs prompt shield, jailbreak and text analysis over the question
// @Tags Checks
// @Accept json
// @Produce json
// @Param request body request.CheckQuestionRequest true "Question"
// @Success 200 {object} dispatcher.AggregatedResult
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /api/v1/checks/question [post]
func (h *checkQuestionHandler) Handle(c *fiber.Ctx) error {
	var req request.CheckQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse check question request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload.Error()})
	}

	result, err := h.service.CheckQuestion(c.Context(), req.Question)
	if err != nil {
		if errors.Is(err, safety.ErrMissingField) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("question checks failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
