package handler

import (
	"errors"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/erivelton/subscriply/internal/middleware"
	"github.com/erivelton/subscriply/internal/service"
	"github.com/gofiber/fiber/v2"
)

// PlanHandler handles the plan catalog endpoints
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// CreatePlan handles POST /v1/plans
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	var req service.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Plan name is required"})
	}

	plan, err := h.planService.CreatePlan(c.Context(), middleware.OwnerID(c), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDuration) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

// ListPlans handles GET /v1/plans
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.planService.ListPlans(c.Context(), middleware.OwnerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plans)
}

// GetPlan handles GET /v1/plans/:id
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	plan, err := h.planService.GetPlan(c.Context(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// UpdatePlan handles PUT /v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *fiber.Ctx) error {
	var req service.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	plan, err := h.planService.UpdatePlan(c.Context(), middleware.OwnerID(c), c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		case errors.Is(err, domain.ErrInvalidDuration):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(plan)
}

// DeletePlan handles DELETE /v1/plans/:id
func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	err := h.planService.DeletePlan(c.Context(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
		case errors.Is(err, domain.ErrPlanInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
