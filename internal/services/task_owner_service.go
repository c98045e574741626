package services

import (
	"context"
	"errors"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskOwnerService assigns admins to hazards. A hazard has at most one
// owner (is_collaborator = false) and any number of collaborators.
type TaskOwnerService struct {
	db *gorm.DB
}

func NewTaskOwnerService(db *gorm.DB) *TaskOwnerService {
	return &TaskOwnerService{db: db}
}

// GetOwnersByHazardID lists assignments with admin display data, owner
// first.
func (s *TaskOwnerService) GetOwnersByHazardID(ctx context.Context, hazardID uint) ([]models.TaskOwnerView, error) {
	views := make([]models.TaskOwnerView, 0)
	err := s.db.WithContext(ctx).
		Table("task_owners").
		Select("task_owners.hazard_id, task_owners.admin_id, task_owners.is_collaborator, " +
			"admins.role_id AS role, users.first_name, users.last_name, users.email").
		Joins("JOIN admins ON admins.id = task_owners.admin_id").
		Joins("JOIN users ON users.id = admins.user_id").
		Where("task_owners.hazard_id = ?", hazardID).
		Order("task_owners.is_collaborator ASC, task_owners.created_at ASC").
		Scan(&views).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to list task owners")
	}
	return views, nil
}

// CheckOwner reports whether the admin is assigned to the hazard in any
// capacity.
func (s *TaskOwnerService) CheckOwner(ctx context.Context, hazardID, adminID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.TaskOwner{}).
		Where("hazard_id = ? AND admin_id = ?", hazardID, adminID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal(err, "failed to check task owner")
	}
	return count > 0, nil
}

func (s *TaskOwnerService) AddOwner(ctx context.Context, req *dto.TaskOwnerRequest) (*models.TaskOwner, error) {
	var owner models.TaskOwner
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockHazard(tx, req.HazardID); err != nil {
			return err
		}

		var admins int64
		if err := tx.Model(&models.Admin{}).Where("id = ?", req.AdminID).Count(&admins).Error; err != nil {
			return err
		}
		if admins == 0 {
			return apperr.NotFound("admin %d not found", req.AdminID)
		}

		var existing int64
		if err := tx.Model(&models.TaskOwner{}).
			Where("hazard_id = ? AND admin_id = ?", req.HazardID, req.AdminID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperr.Conflict("admin %d is already assigned to hazard %d", req.AdminID, req.HazardID)
		}

		if !req.IsCollaborator {
			owners, err := countOwners(tx, req.HazardID)
			if err != nil {
				return err
			}
			if owners > 0 {
				return apperr.Conflict("hazard %d already has an owner", req.HazardID)
			}
		}

		owner = models.TaskOwner{
			HazardID:       req.HazardID,
			AdminID:        req.AdminID,
			IsCollaborator: req.IsCollaborator,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, asAppError(err, "failed to add task owner")
	}
	return &owner, nil
}

// UpdateOwnerType flips an assignment between owner and collaborator.
func (s *TaskOwnerService) UpdateOwnerType(ctx context.Context, req *dto.TaskOwnerRequest) (*models.TaskOwner, error) {
	var owner models.TaskOwner
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockHazard(tx, req.HazardID); err != nil {
			return err
		}
		if err := findAssignment(tx, req.HazardID, req.AdminID, &owner); err != nil {
			return err
		}

		if !req.IsCollaborator && owner.IsCollaborator {
			owners, err := countOwners(tx, req.HazardID)
			if err != nil {
				return err
			}
			if owners > 0 {
				return apperr.Conflict("hazard %d already has an owner", req.HazardID)
			}
		}

		if err := tx.Model(&models.TaskOwner{}).
			Where("hazard_id = ? AND admin_id = ?", req.HazardID, req.AdminID).
			Update("is_collaborator", req.IsCollaborator).Error; err != nil {
			return err
		}
		owner.IsCollaborator = req.IsCollaborator
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update task owner")
	}
	return &owner, nil
}

// SwitchOwnerWithCollab promotes a collaborator to owner and demotes the
// current owner in a single statement.
func (s *TaskOwnerService) SwitchOwnerWithCollab(ctx context.Context, hazardID, adminID uint) ([]models.TaskOwnerView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockHazard(tx, hazardID); err != nil {
			return err
		}

		var target models.TaskOwner
		if err := findAssignment(tx, hazardID, adminID, &target); err != nil {
			return err
		}
		if !target.IsCollaborator {
			return apperr.Conflict("admin %d already owns hazard %d", adminID, hazardID)
		}

		return tx.Model(&models.TaskOwner{}).
			Where("hazard_id = ? AND (admin_id = ? OR is_collaborator = ?)", hazardID, adminID, false).
			Update("is_collaborator", gorm.Expr("CASE WHEN admin_id = ? THEN ? ELSE ? END", adminID, false, true)).
			Error
	})
	if err != nil {
		return nil, asAppError(err, "failed to switch task owner")
	}
	return s.GetOwnersByHazardID(ctx, hazardID)
}

func (s *TaskOwnerService) Delete(ctx context.Context, hazardID, adminID uint) error {
	result := s.db.WithContext(ctx).
		Where("hazard_id = ? AND admin_id = ?", hazardID, adminID).
		Delete(&models.TaskOwner{})
	if result.Error != nil {
		return apperr.Internal(result.Error, "failed to delete task owner")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("admin %d is not assigned to hazard %d", adminID, hazardID)
	}
	return nil
}

// lockHazard takes a row lock on the hazard so owner changes for the same
// hazard serialize. SQLite ignores the lock clause and serializes writers
// on its own.
func lockHazard(tx *gorm.DB, hazardID uint) error {
	var hazard models.Hazard
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&hazard, hazardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("hazard %d not found", hazardID)
	}
	return err
}

func findAssignment(tx *gorm.DB, hazardID, adminID uint, out *models.TaskOwner) error {
	err := tx.Where("hazard_id = ? AND admin_id = ?", hazardID, adminID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("admin %d is not assigned to hazard %d", adminID, hazardID)
	}
	return err
}

func countOwners(tx *gorm.DB, hazardID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.TaskOwner{}).
		Where("hazard_id = ? AND is_collaborator = ?", hazardID, false).
		Count(&n).Error
	return n, err
}
