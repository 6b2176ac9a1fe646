package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/app/service"
	"github.com/akoun-dev/africahub-sub004/internal/transport/httpserver/dto"
	"github.com/akoun-dev/africahub-sub004/internal/validator"
)

// AdminHandler handles administrative HTTP requests.
type AdminHandler struct {
	resolution *service.ResolutionService
	analytics  *service.AnalyticsService
	validator  *validator.Validator
	logger     *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	resolution *service.ResolutionService,
	analytics *service.AnalyticsService,
	v *validator.Validator,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		resolution: resolution,
		analytics:  analytics,
		validator:  v,
		logger:     logger,
	}
}

// PurgeCache handles POST /api/v1/admin/cache/purge
func (h *AdminHandler) PurgeCache(c *fiber.Ctx) error {
	var req dto.PurgeRequest
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

	h.logger.Info("manual cache purge triggered",
		zap.String("content_key", req.ContentKey),
		zap.Bool("exact", req.Exact()),
	)

	if err := h.resolution.InvalidateContentCache(c.Context(), req.ToLookup(), req.Exact()); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.PurgeResponse{
		ContentKey: req.ContentKey,
		Exact:      req.Exact(),
	})
}

// TopCounters handles GET /api/v1/admin/analytics/top
func (h *AdminHandler) TopCounters(c *fiber.Ctx) error {
	day := time.Now().UTC()
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "day must be formatted YYYY-MM-DD",
				Code:  "INVALID_PARAMS",
			})
		}
		day = parsed
	}

	limit := c.QueryInt("limit", 20)

	counters, err := h.analytics.TopCounters(c.Context(), day, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainCounters(day, counters))
}
