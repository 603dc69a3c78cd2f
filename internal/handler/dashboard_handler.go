package handler

import (
	"errors"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/erivelton/subscriply/internal/middleware"
	"github.com/erivelton/subscriply/internal/service"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the summary and report card endpoints
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles GET /v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.dashboardService.GetSummary(c.Context(), middleware.OwnerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// ListReportCards handles GET /v1/reports
func (h *DashboardHandler) ListReportCards(c *fiber.Ctx) error {
	cards, err := h.dashboardService.ListReportCards(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cards)
}

// SetReportCardVisibility handles PATCH /v1/reports/:id
func (h *DashboardHandler) SetReportCardVisibility(c *fiber.Ctx) error {
	var req struct {
		Visible *bool `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil || req.Visible == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "visible is required"})
	}

	if err := h.dashboardService.SetReportCardVisibility(c.Context(), c.Params("id"), *req.Visible); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report card not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "visible": *req.Visible})
}
