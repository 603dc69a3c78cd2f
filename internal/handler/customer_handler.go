package handler

import (
	"errors"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/erivelton/subscriply/internal/middleware"
	"github.com/erivelton/subscriply/internal/service"
	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer and subscription endpoints
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomer handles POST /v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Customer name is required"})
	}

	customer, err := h.customerService.CreateCustomer(c.Context(), middleware.OwnerID(c), req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// ListCustomers handles GET /v1/customers
// Returns derived details: every subscription resolved and classified
// against the plan catalog as of now.
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	details, err := h.customerService.ListCustomerDetails(c.Context(), middleware.OwnerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(details)
}

// GetCustomer handles GET /v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	details, err := h.customerService.GetCustomerDetails(c.Context(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(details)
}

// UpdateCustomer handles PUT /v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	var req service.UpdateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	customer, err := h.customerService.UpdateCustomer(c.Context(), middleware.OwnerID(c), c.Params("id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(customer)
}

// DeleteCustomer handles DELETE /v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	err := h.customerService.DeleteCustomer(c.Context(), middleware.OwnerID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddSubscription handles POST /v1/customers/:id/subscriptions
func (h *CustomerHandler) AddSubscription(c *fiber.Ctx) error {
	var req service.AddSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "plan_id is required"})
	}

	sub, err := h.customerService.AddSubscription(c.Context(), middleware.OwnerID(c), c.Params("id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer or plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// RemoveSubscription handles DELETE /v1/customers/:id/subscriptions/:subId
func (h *CustomerHandler) RemoveSubscription(c *fiber.Ctx) error {
	err := h.customerService.RemoveSubscription(c.Context(), middleware.OwnerID(c), c.Params("id"), c.Params("subId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RenewSubscription handles POST /v1/customers/:id/subscriptions/:subId/renew
// The new cycle is backdated by any unused days; an optional plan_id
// switches plans.
func (h *CustomerHandler) RenewSubscription(c *fiber.Ctx) error {
	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	detail, err := h.customerService.RenewSubscription(c.Context(), middleware.OwnerID(c), c.Params("id"), c.Params("subId"), req.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer, subscription or plan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}
