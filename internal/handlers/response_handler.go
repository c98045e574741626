package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/services"
)

// ResponseHandler exposes the workflow transitions. Analysis steps expect
// a response admin; checking steps expect an audit admin.
type ResponseHandler struct {
	responses *services.ResponseService
	checker   *services.PermissionChecker
}

func NewResponseHandler(responses *services.ResponseService, checker *services.PermissionChecker) *ResponseHandler {
	return &ResponseHandler{responses: responses, checker: checker}
}

type transitionFunc func(ctx context.Context, actorID, hazardID uint) (*models.Response, error)

// authorize resolves the hazard id and runs the permission checker with
// the given expected role; zero means the caller's own role.
func (h *ResponseHandler) authorize(c *fiber.Ctx, expected models.Role) (services.Requester, uint, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return services.Requester{}, 0, err
	}
	req, err := requester(c)
	if err != nil {
		return services.Requester{}, 0, err
	}
	if expected == 0 {
		expected = req.Role
	}
	if _, err := h.checker.Check(c.UserContext(), id, req, expected); err != nil {
		return services.Requester{}, 0, err
	}
	return req, id, nil
}

func (h *ResponseHandler) run(c *fiber.Ctx, expected models.Role, fn transitionFunc) error {
	req, id, err := h.authorize(c, expected)
	if err != nil {
		return err
	}
	resp, err := fn(c.UserContext(), req.UserID, id)
	if err != nil {
		return err
	}
	return ok(c, resp)
}

func (h *ResponseHandler) Get(c *fiber.Ctx) error {
	_, id, err := h.authorize(c, 0)
	if err != nil {
		return err
	}
	resp, err := h.responses.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, resp)
}

func (h *ResponseHandler) StartAnalysis(c *fiber.Ctx) error {
	return h.run(c, models.RoleResponseAdmin, h.responses.StartAnalysis)
}

func (h *ResponseHandler) UpdateResponseBody(c *fiber.Ctx) error {
	var body dto.TransitionRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if body.ResponseBody == nil {
		return apperr.Validation("response_body is required")
	}
	return h.run(c, models.RoleResponseAdmin, func(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
		return h.responses.UpdateResponseBody(ctx, actorID, hazardID, *body.ResponseBody)
	})
}

func (h *ResponseHandler) ApproveRequest(c *fiber.Ctx) error {
	var body dto.TransitionRequest
	if err := parseOptionalBody(c, &body); err != nil {
		return err
	}
	return h.run(c, models.RoleResponseAdmin, func(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
		return h.responses.ApproveRequest(ctx, actorID, hazardID, body.ResponseBody)
	})
}

func (h *ResponseHandler) DenyRequest(c *fiber.Ctx) error {
	var body dto.TransitionRequest
	if err := parseOptionalBody(c, &body); err != nil {
		return err
	}
	return h.run(c, models.RoleResponseAdmin, func(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
		return h.responses.DenyRequest(ctx, actorID, hazardID, body.ResponseBody)
	})
}

func (h *ResponseHandler) FinishAnalysis(c *fiber.Ctx) error {
	return h.run(c, models.RoleResponseAdmin, h.responses.FinishAnalysis)
}

func (h *ResponseHandler) StartChecking(c *fiber.Ctx) error {
	return h.run(c, models.RoleAuditAdmin, h.responses.StartChecking)
}

func (h *ResponseHandler) ConfirmResponse(c *fiber.Ctx) error {
	return h.run(c, models.RoleAuditAdmin, h.responses.ConfirmResponse)
}

func (h *ResponseHandler) DenyResponse(c *fiber.Ctx) error {
	var body dto.DenyResponseRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	return h.run(c, models.RoleAuditAdmin, func(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
		return h.responses.DenyResponse(ctx, actorID, hazardID, body.ReasonToDeny)
	})
}
