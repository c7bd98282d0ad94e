package comparison

import (
	"errors"
	"fmt"

	"envcompare/core/compare"
	"envcompare/core/database"
	"envcompare/core/environment"
	"envcompare/core/export"
	"envcompare/core/logger"
	"envcompare/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// HeaderKeyFallback is set to "first_column" when no key was given or discovered.
	HeaderKeyFallback = "X-Key-Fallback"
	// HeaderKeyFields lists the key fields a comparison was aligned on.
	HeaderKeyFields = "X-Key-Fields"
	// HeaderExportObject carries the storage key of an uploaded export.
	HeaderExportObject = "X-Export-Object"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Get("/environments", h.HandleEnvironments)
	group.Post("/table", h.HandleCompareTable)
	group.Post("/query", h.HandleCompareQuery)
	group.Post("/rows", h.HandleCompareRows)
	group.Post("/export", h.HandleExport)
	group.Get("/exports", h.HandleListExports)
	group.Get("/exports/:name", h.HandleGetExport)
	group.Delete("/exports/:name", h.HandleDeleteExport)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, database.ErrInvalidIdentifier),
		errors.Is(err, database.ErrSuspiciousClause),
		errors.Is(err, environment.ErrUnknownEnvironment),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, storage.ErrInvalidReportName):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrReportNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrStorageDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handler) badBody(c *fiber.Ctx, err error) error {
	return h.fail(c, "Invalid request body", fmt.Errorf("%w: %v", ErrInvalidRequest, err))
}

func (h *Handler) respond(c *fiber.Ctx, out *Outcome) error {
	if out.KeySource == KeyFirstColumn {
		c.Set(HeaderKeyFallback, string(KeyFirstColumn))
	}
	for _, k := range out.KeyFields {
		c.Response().Header.Add(HeaderKeyFields, k)
	}
	return c.JSON(out.Result)
}

// HandleEnvironments lists the configured environments.
// @Summary List Environments
// @Description Returns the names and descriptions of the environments comparisons can run against.
// @Tags compare
// @Produce json
// @Success 200 {array} environment.Environment "Environments"
// @Security ApiKeyAuth
// @Router /compare/environments [get]
func (h *Handler) HandleEnvironments(c *fiber.Ctx) error {
	return c.JSON(h.service.Environments())
}

// HandleCompareTable compares a table between two environments.
// @Summary Compare Table
// @Description Fetches a table from two environments and compares the rows by key. Without key_fields the primary key is used, then the first column (flagged in X-Key-Fallback).
// @Tags compare
// @Accept json
// @Produce json
// @Param request body TableRequest true "Table comparison"
// @Success 200 {object} compare.Result "Comparison Result"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /compare/table [post]
func (h *Handler) HandleCompareTable(c *fiber.Ctx) error {
	var req TableRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}

	logger.WithRayID(h.logger, c).Info("Comparing table",
		zap.String("source_a", req.SourceA),
		zap.String("source_b", req.SourceB),
		zap.String("table", req.Table),
	)

	out, err := h.service.CompareTable(c.Context(), req)
	if err != nil {
		return h.fail(c, "Table comparison failed", err)
	}
	return h.respond(c, out)
}

// HandleCompareQuery compares a raw query between two environments.
// @Summary Compare Query
// @Description Runs a read-only SELECT in two environments and compares the rows. Without key_fields the first column is the key.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body QueryRequest true "Query comparison"
// @Success 200 {object} compare.Result "Comparison Result"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /compare/query [post]
func (h *Handler) HandleCompareQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}

	logger.WithRayID(h.logger, c).Info("Comparing query",
		zap.String("source_a", req.SourceA),
		zap.String("source_b", req.SourceB),
	)

	out, err := h.service.CompareQuery(c.Context(), req)
	if err != nil {
		return h.fail(c, "Query comparison failed", err)
	}
	return h.respond(c, out)
}

// HandleCompareRows compares caller-supplied rows.
// @Summary Compare Rows
// @Description Compares two record sets supplied in the request body.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body RowsRequest true "Rows comparison"
// @Success 200 {object} compare.Result "Comparison Result"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Security ApiKeyAuth
// @Router /compare/rows [post]
func (h *Handler) HandleCompareRows(c *fiber.Ctx) error {
	var req RowsRequest
	if err := c.BodyParser(&req); err != nil {
		return h.badBody(c, err)
	}

	out, err := h.service.CompareRows(req)
	if err != nil {
		return h.fail(c, "Rows comparison failed", err)
	}
	return h.respond(c, out)
}

// HandleExport serializes a comparison result.
// @Summary Export Result
// @Description Serializes a comparison result as JSON or CSV. With upload=true the file is also stored and its key returned in X-Export-Object.
// @Tags compare
// @Accept json
// @Produce json
// @Produce text/csv
// @Param format query string false "json or csv" default(json)
// @Param upload query boolean false "Store the export"
// @Param result body compare.Result true "Comparison Result"
// @Success 200 {string} string "Export file"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 503 {object} map[string]string "Storage Not Configured"
// @Security ApiKeyAuth
// @Router /compare/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	format := c.Query("format", export.FormatJSON)
	upload := c.QueryBool("upload", false)

	var result compare.Result
	if err := c.BodyParser(&result); err != nil {
		return h.badBody(c, err)
	}

	file, err := h.service.Export(c.Context(), &result, format, upload)
	if err != nil {
		return h.fail(c, "Export failed", err)
	}

	if file.ObjectKey != "" {
		c.Set(HeaderExportObject, file.ObjectKey)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Content)
}

// HandleListExports lists uploaded exports.
// @Summary List Exports
// @Description Lists the exports stored in the bucket, newest first.
// @Tags compare
// @Produce json
// @Success 200 {array} storage.ReportInfo "Stored Exports"
// @Failure 503 {object} map[string]string "Storage Not Configured"
// @Security ApiKeyAuth
// @Router /compare/exports [get]
func (h *Handler) HandleListExports(c *fiber.Ctx) error {
	reports, err := h.service.ListExports(c.Context())
	if err != nil {
		return h.fail(c, "Listing exports failed", err)
	}
	return c.JSON(reports)
}

// HandleGetExport downloads an uploaded export.
// @Summary Download Export
// @Tags compare
// @Produce json
// @Produce text/csv
// @Param name path string true "Export file name"
// @Success 200 {string} string "Export file"
// @Failure 404 {object} map[string]string "Not Found"
// @Security ApiKeyAuth
// @Router /compare/exports/{name} [get]
func (h *Handler) HandleGetExport(c *fiber.Ctx) error {
	file, err := h.service.GetExport(c.Context(), c.Params("name"))
	if err != nil {
		return h.fail(c, "Downloading export failed", err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Content)
}

// HandleDeleteExport removes an uploaded export.
// @Summary Delete Export
// @Tags compare
// @Param name path string true "Export file name"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Invalid Name"
// @Security ApiKeyAuth
// @Router /compare/exports/{name} [delete]
func (h *Handler) HandleDeleteExport(c *fiber.Ctx) error {
	if err := h.service.DeleteExport(c.Context(), c.Params("name")); err != nil {
		return h.fail(c, "Deleting export failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
