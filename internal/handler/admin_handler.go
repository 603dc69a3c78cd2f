package handler

import (
	"errors"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/erivelton/subscriply/internal/middleware"
	"github.com/erivelton/subscriply/internal/repository"
	"github.com/erivelton/subscriply/internal/service"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles user administration, settings, backups and the demo
// data reset. Every route behind it requires the admin flag.
type AdminHandler struct {
	authService   *service.AuthService
	backupService *service.BackupService // nil when backups are disabled
	seeder        *repository.Seeder
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService, backupService *service.BackupService, seeder *repository.Seeder) *AdminHandler {
	return &AdminHandler{
		authService:   authService,
		backupService: backupService,
		seeder:        seeder,
	}
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(users)
}

// CreateUser handles POST /v1/admin/users
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.authService.CreateUser(c.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
		IsAdmin  *bool   `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.authService.UpdateUser(c.Context(), c.Params("id"), service.UpdateUserRequest{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, domain.ErrLastAdmin):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	err := h.authService.DeleteUser(c.Context(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, domain.ErrLastAdmin):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings handles GET /v1/admin/settings
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.authService.GetSettings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(settings)
}

// UpdateSettings handles PUT /v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings domain.SystemSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	settings.ID = domain.SettingsID

	updated, err := h.authService.UpdateSettings(c.Context(), &settings)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(updated)
}

// CreateBackup handles POST /v1/admin/backups
func (h *AdminHandler) CreateBackup(c *fiber.Ctx) error {
	if h.backupService == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Backups are not configured"})
	}

	key, err := h.backupService.CreateBackup(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}

// ResetDemoData handles POST /v1/admin/reset
// Drops the caller's plans and customers and reinstalls the demo dataset.
func (h *AdminHandler) ResetDemoData(c *fiber.Ctx) error {
	if err := h.seeder.ResetDemoData(c.Context(), middleware.OwnerID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "demo data restored"})
}
