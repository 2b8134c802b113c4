package http

import (
	"errors"

	"github.com/NeuralTrust/SafetyHub/pkg/app/safety"
	"github.com/NeuralTrust/SafetyHub/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type checkAnswerHandler struct {
	logger  *logrus.Logger
	service safety.Service
}

func NewCheckAnswerHandler(logger *logrus.Logger, service safety.Service) Handler {
	return &checkAnswerHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Screen a generated answer
// @Description Runs groundedness, protected material, text analysis and prompt shield over the answer and its sources
// @Tags Checks
// @Accept json
// @Produce json
// @Param request body request.CheckAnswerRequest true "Question, answer and sources"
// @Success 200 {object} dispatcher.AggregatedResult
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /api/v1/checks/answer [post]
func (h *checkAnswerHandler) Handle(c *fiber.Ctx) error {
	var req request.CheckAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse check answer request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload.Error()})
	}

	result, err := h.service.CheckAnswer(c.Context(), req.Question, req.Answer, req.Sources)
	if err != nil {
		if errors.Is(err, safety.ErrMissingField) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("answer checks failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
