package schema

import (
	"errors"
	"fmt"

	"envcompare/core/database"
	"envcompare/core/environment"
	"envcompare/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for schema comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the schema routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/schema")
	group.Post("/compare", h.HandleCompare)
}

// HandleCompare compares a table definition between two environments.
// @Summary Compare Table Schema
// @Description Compares the column definitions (type, nullability, key, default, extra) of a table in two environments.
// @Tags schema
// @Accept json
// @Produce json
// @Param request body Request true "Schema comparison"
// @Success 200 {object} Report "Schema Report"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /schema/compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid request body: %v", err)})
	}

	report, err := h.service.Compare(c.Context(), req)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrInvalidRequest) ||
			errors.Is(err, database.ErrInvalidIdentifier) ||
			errors.Is(err, environment.ErrUnknownEnvironment) {
			status = fiber.StatusBadRequest
		}
		l.Error("Schema comparison failed", zap.Error(err), zap.Int("status", status))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}
