package services

import (
	"context"
	"errors"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/models"
	"gorm.io/gorm"
)

// Requester is the authenticated caller as the permission checker sees it.
type Requester struct {
	UserID uint
	Role   models.Role
}

// PermissionChecker decides whether an admin may act on a hazard.
//
// Super admins may act on every hazard. An admin whose role matches the
// expected role may act on public hazards. Everything else that reaches
// the checker (special admins, and the expected role on private hazards)
// needs a task owner assignment. Other roles are refused.
type PermissionChecker struct {
	db     *gorm.DB
	admins *AdminService
	owners *TaskOwnerService
}

func NewPermissionChecker(db *gorm.DB, admins *AdminService, owners *TaskOwnerService) *PermissionChecker {
	return &PermissionChecker{db: db, admins: admins, owners: owners}
}

// Check returns whether the hazard is private, or a NotFound or Forbidden
// error.
func (p *PermissionChecker) Check(ctx context.Context, hazardID uint, req Requester, expected models.Role) (bool, error) {
	private, err := p.isPrivate(ctx, hazardID)
	if err != nil {
		return false, err
	}

	if req.Role == models.RoleSuperAdmin {
		return private, nil
	}
	if req.Role == expected && !private {
		return private, nil
	}
	if req.Role != models.RoleSpecialAdmin && req.Role != expected {
		return private, apperr.Forbidden("role %s may not act on hazard %d", req.Role, hazardID)
	}

	admin, err := p.admins.FindByUserID(ctx, req.UserID)
	if apperr.Is(err, apperr.KindNotFound) {
		return private, apperr.Forbidden("user %d is not an admin", req.UserID)
	}
	if err != nil {
		return private, err
	}

	owns, err := p.owners.CheckOwner(ctx, hazardID, admin.ID)
	if err != nil {
		return private, err
	}
	if !owns {
		return private, apperr.Forbidden("admin %d is not assigned to hazard %d", admin.ID, hazardID)
	}
	return private, nil
}

// CheckViewer lets the hazard's reporter through, and otherwise applies
// Check with the caller's own admin role.
func (p *PermissionChecker) CheckViewer(ctx context.Context, hazardID, userID uint) error {
	var hazard models.Hazard
	err := p.db.WithContext(ctx).Select("id", "user_id").First(&hazard, hazardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("hazard %d not found", hazardID)
	}
	if err != nil {
		return apperr.Internal(err, "failed to load hazard")
	}
	if hazard.UserID != nil && *hazard.UserID == userID {
		return nil
	}

	admin, err := p.admins.FindByUserID(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Forbidden("only the reporter or an assigned admin may access hazard %d", hazardID)
	}
	if err != nil {
		return err
	}
	_, err = p.Check(ctx, hazardID, Requester{UserID: userID, Role: admin.RoleID}, admin.RoleID)
	return err
}

func (p *PermissionChecker) isPrivate(ctx context.Context, hazardID uint) (bool, error) {
	var row struct {
		IsPrivate bool
	}
	err := p.db.WithContext(ctx).
		Table("hazards").
		Select("hazard_types.is_private").
		Joins("JOIN hazard_types ON hazard_types.id = hazards.hazard_type_id").
		Where("hazards.id = ?", hazardID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperr.NotFound("hazard %d not found", hazardID)
	}
	if err != nil {
		return false, apperr.Internal(err, "failed to load hazard")
	}
	return row.IsPrivate, nil
}
