package http

import (
	"github.com/NeuralTrust/SafetyHub/pkg/domain"
	"github.com/NeuralTrust/SafetyHub/pkg/domain/resourcepool"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getResourcePoolHandler struct {
	logger *logrus.Logger
	repo   resourcepool.Repository
}

func NewGetResourcePoolHandler(logger *logrus.Logger, repo resourcepool.Repository) Handler {
	return &getResourcePoolHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle @Summary Retrieve the rotation pool of a model
// @Tags Admin
// @Param Authorization header string true "Authorization token"
// @Produce json
// @Param model path string true "Model name"
// @Success 200 {object} resourcepool.ResourcePool
// @Failure 404 {object} map[string]interface{} "Pool not found"
// @Router /api/v1/admin/pools/{model} [get]
func (h *getResourcePoolHandler) Handle(c *fiber.Ctx) error {
	model := c.Params("model")
	if model == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "model is required"})
	}

	pool, err := h.repo.Get(c.Context(), model)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource pool not found"})
		}
		h.logger.WithError(err).WithField("model", model).Error("failed to get resource pool")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(fiber.StatusOK).JSON(pool)
}
