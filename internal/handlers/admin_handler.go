package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/services"
)

type AdminHandler struct {
	admins *services.AdminService
}

func NewAdminHandler(admins *services.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, admins)
}
