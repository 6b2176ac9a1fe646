// Package handler provides HTTP handlers for the API.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/app/service"
	"github.com/akoun-dev/africahub-sub004/internal/transport/httpserver/dto"
	"github.com/akoun-dev/africahub-sub004/internal/validator"
)

// ContentHandler handles resolution and content lifecycle HTTP requests.
type ContentHandler struct {
	resolution *service.ResolutionService
	analytics  *service.AnalyticsService
	validator  *validator.Validator
	logger     *zap.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(
	resolution *service.ResolutionService,
	analytics *service.AnalyticsService,
	v *validator.Validator,
	logger *zap.Logger,
) *ContentHandler {
	return &ContentHandler{
		resolution: resolution,
		analytics:  analytics,
		validator:  v,
		logger:     logger,
	}
}

// Resolve handles GET /api/v1/content/resolve
func (h *ContentHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	rec, err := h.resolution.Resolve(c.Context(), req.ToLookup())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if rec == nil {
		// No matching content is a normal empty result, not an error.
		return c.Status(fiber.StatusOK).Send(nil)
	}

	return c.JSON(dto.FromDomainRecord(rec))
}

// Create handles POST /api/v1/content
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	created, err := h.resolution.CreateContent(c.Context(), req.ToDomain())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainRecord(created))
}

// GetByID handles GET /api/v1/content/:id
func (h *ContentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "id is required",
			Code:  "MISSING_ID",
		})
	}

	rec, err := h.resolution.GetContent(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainRecord(rec))
}

// Update handles PUT /api/v1/content/:id
func (h *ContentHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.UpdateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	updated, err := h.resolution.UpdateContent(c.Context(), id, req.ToPatch(), req.ExpectedVersion)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainRecord(updated))
}

// Delete handles DELETE /api/v1/content/:id
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.resolution.DeleteContent(c.Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListVersions handles GET /api/v1/content/:id/versions
func (h *ContentHandler) ListVersions(c *fiber.Ctx) error {
	id := c.Params("id")

	versions, err := h.resolution.ListVersions(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainVersions(id, versions))
}

// Restore handles POST /api/v1/content/:id/restore
func (h *ContentHandler) Restore(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.RestoreVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	restored, err := h.resolution.RestoreVersion(c.Context(), id, req.Version, req.Actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainRecord(restored))
}

// RecordView handles POST /api/v1/content/:id/views
//
// The impression ping always acknowledges: counting failures stay
// server-side.
func (h *ContentHandler) RecordView(c *fiber.Ctx) error {
	id := c.Params("id")

	var req dto.RecordViewRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	h.analytics.RecordView(c.Context(), id, req.Country, req.Sector)

	return c.SendStatus(fiber.StatusAccepted)
}
