package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/identity"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/services"
)

// RequireRoles admits callers whose admin row carries one of roles. The
// role is read from the database on every request, never from the token,
// and the admin row is left in locals for handlers.
func RequireRoles(admins *services.AdminService, roles []models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.GetUserID(c)
		if err != nil {
			return apperr.Unauthorized("unauthorized")
		}

		admin, err := admins.FindByUserID(c.UserContext(), userID)
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Forbidden("admin access required")
		}
		if err != nil {
			return err
		}

		if !admin.RoleID.In(roles) {
			return apperr.Forbidden("role %s may not access this resource", admin.RoleID)
		}

		identity.SetAdmin(c, admin)
		return c.Next()
	}
}
