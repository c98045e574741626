package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/services"
)

// TaskOwnerHandler manages hazard owners and collaborators. Every route
// runs the permission checker with special-admin as the expected role, so
// on private hazards only super admins and assigned admins get through.
type TaskOwnerHandler struct {
	owners  *services.TaskOwnerService
	checker *services.PermissionChecker
}

func NewTaskOwnerHandler(owners *services.TaskOwnerService, checker *services.PermissionChecker) *TaskOwnerHandler {
	return &TaskOwnerHandler{owners: owners, checker: checker}
}

// authorize checks the caller against the hazard the request targets.
func (h *TaskOwnerHandler) authorize(c *fiber.Ctx, hazardID uint) error {
	req, err := requester(c)
	if err != nil {
		return err
	}
	_, err = h.checker.Check(c.UserContext(), hazardID, req, models.RoleSpecialAdmin)
	return err
}

// List returns the hazard's owner and collaborators, owner first.
func (h *TaskOwnerHandler) List(c *fiber.Ctx) error {
	hazardID, err := paramID(c, "hazardId")
	if err != nil {
		return err
	}
	if err := h.authorize(c, hazardID); err != nil {
		return err
	}

	owners, err := h.owners.GetOwnersByHazardID(c.UserContext(), hazardID)
	if err != nil {
		return err
	}
	return ok(c, owners)
}

// Add assigns an admin as the owner or as a collaborator.
func (h *TaskOwnerHandler) Add(c *fiber.Ctx) error {
	var req dto.TaskOwnerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authorize(c, req.HazardID); err != nil {
		return err
	}
	owner, err := h.owners.AddOwner(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return created(c, owner)
}

// UpdateOwner flips an assignment between owner and collaborator.
func (h *TaskOwnerHandler) UpdateOwner(c *fiber.Ctx) error {
	var req dto.TaskOwnerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authorize(c, req.HazardID); err != nil {
		return err
	}
	owner, err := h.owners.UpdateOwnerType(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return ok(c, owner)
}

// SwitchOwnerWithCollab promotes a collaborator and demotes the owner.
func (h *TaskOwnerHandler) SwitchOwnerWithCollab(c *fiber.Ctx) error {
	var req dto.TaskOwnerKey
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authorize(c, req.HazardID); err != nil {
		return err
	}
	owners, err := h.owners.SwitchOwnerWithCollab(c.UserContext(), req.HazardID, req.AdminID)
	if err != nil {
		return err
	}
	return ok(c, owners)
}

// Delete removes an assignment.
func (h *TaskOwnerHandler) Delete(c *fiber.Ctx) error {
	var req dto.TaskOwnerKey
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authorize(c, req.HazardID); err != nil {
		return err
	}
	if err := h.owners.Delete(c.UserContext(), req.HazardID, req.AdminID); err != nil {
		return err
	}
	return ok(c, req)
}
