package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/services"
)

type HazardHandler struct {
	hazards *services.HazardService
	checker *services.PermissionChecker
}

func NewHazardHandler(hazards *services.HazardService, checker *services.PermissionChecker) *HazardHandler {
	return &HazardHandler{hazards: hazards, checker: checker}
}

// Create records a hazard reported by the authenticated user.
func (h *HazardHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	req := dto.CreateHazardRequest{UserID: &userID}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.UserID = &userID

	hazard, err := h.hazards.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, hazard)
}

// CreateExternal records a hazard from a reporter without an account.
// Contact fields are mandatory.
func (h *HazardHandler) CreateExternal(c *fiber.Ctx) error {
	var req dto.CreateHazardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	hazard, err := h.hazards.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, hazard)
}

func (h *HazardHandler) Mine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	hazards, err := h.hazards.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return ok(c, hazards)
}

func (h *HazardHandler) List(c *fiber.Ctx) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	hazards, err := h.hazards.List(c.UserContext(), services.ListHazardsParams{
		Role:     req.Role,
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("size", 0),
	})
	if err != nil {
		return err
	}
	return ok(c, hazards)
}

// Get checks the caller against their own role as the expected one.
func (h *HazardHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	req, err := requester(c)
	if err != nil {
		return err
	}
	if _, err := h.checker.Check(c.UserContext(), id, req, req.Role); err != nil {
		return err
	}

	hazard, err := h.hazards.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, hazard)
}

func (h *HazardHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.hazards.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return ok(c, fiber.Map{"id": id, "deleted": true})
}
