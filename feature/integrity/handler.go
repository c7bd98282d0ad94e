package integrity

import (
	"errors"

	"envcompare/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/environments", h.HandleEnvironmentsCheck)
	group.Get("/storage", h.HandleStorageCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Connects to every environment and checks the export bucket.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Security ApiKeyAuth
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	return c.JSON(h.service.Run(c.Context()))
}

// HandleEnvironmentsCheck checks the environments.
// @Summary Check Environments
// @Description Connects to every environment and reports which ones are reachable.
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.EnvironmentStatus "Environment Statuses"
// @Security ApiKeyAuth
// @Router /integrity/environments [get]
func (h *Handler) HandleEnvironmentsCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckEnvironments(c.Context()))
}

// HandleStorageCheck checks the export bucket.
// @Summary Check Storage
// @Description Checks that the export bucket exists. With fix=true a missing bucket is created.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket if missing"
// @Success 200 {object} checks.StorageStatus "Storage Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage Not Configured"
// @Security ApiKeyAuth
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx := c.Context()

	if c.QueryBool("fix", false) {
		if err := h.service.FixStorage(ctx); err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, ErrStorageDisabled) {
				status = fiber.StatusServiceUnavailable
			}
			l.Error("Failed to fix storage", zap.Error(err))
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(h.service.CheckStorage(ctx))
}
