// Package identity reads the authenticated caller from Fiber context
// locals populated by the JWT and role middleware.
package identity

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/miat-mn/action-log/internal/models"
)

const (
	tokenKey = "user"
	adminKey = "admin"
)

var ErrNoIdentity = errors.New("no authenticated user in context")

// GetUserID extracts the user id from the JWT sub claim.
func GetUserID(c *fiber.Ctx) (uint, error) {
	claims, err := claimsOf(c)
	if err != nil {
		return 0, err
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("missing sub claim")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid sub claim")
	}
	return uint(id), nil
}

// GetEmail returns the email claim, or "" when absent.
func GetEmail(c *fiber.Ctx) string {
	claims, err := claimsOf(c)
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func claimsOf(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoIdentity
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// SetAdmin stores the caller's admin row, loaded by RequireRoles.
func SetAdmin(c *fiber.Ctx, admin *models.Admin) {
	c.Locals(adminKey, admin)
}

// GetAdmin returns the admin row stored by RequireRoles, or nil.
func GetAdmin(c *fiber.Ctx) *models.Admin {
	admin, _ := c.Locals(adminKey).(*models.Admin)
	return admin
}
