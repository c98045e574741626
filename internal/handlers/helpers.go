package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/identity"
	"github.com/miat-mn/action-log/internal/services"
	"github.com/miat-mn/action-log/internal/validation"
)

// parseBody decodes the request body into dst and validates it.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return validation.Struct(dst)
}

// parseOptionalBody is parseBody for endpoints that accept an empty body.
func parseOptionalBody(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return validation.Struct(dst)
	}
	return parseBody(c, dst)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return uint(id), nil
}

func currentUserID(c *fiber.Ctx) (uint, error) {
	id, err := identity.GetUserID(c)
	if err != nil {
		return 0, apperr.Unauthorized("unauthorized")
	}
	return id, nil
}

// requester builds the permission checker's view of the caller from the
// admin row RequireRoles stored.
func requester(c *fiber.Ctx) (services.Requester, error) {
	admin := identity.GetAdmin(c)
	if admin == nil {
		return services.Requester{}, apperr.Forbidden("admin access required")
	}
	return services.Requester{UserID: admin.UserID, Role: admin.RoleID}, nil
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(dto.OK(data))
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.OK(data))
}
