package services

import (
	"context"
	"errors"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/models"
	"gorm.io/gorm"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) FindByUserID(ctx context.Context, userID uint) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %d is not an admin", userID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load admin")
	}
	return &admin, nil
}

func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.db.WithContext(ctx).Preload("User").Order("id").Find(&admins).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list admins")
	}
	return admins, nil
}

type CreateAdminParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
	Position  string
}

// Create makes p.Email an admin with p.Role. The user is created when
// missing; an existing admin row has its role and position replaced.
func (s *AdminService) Create(ctx context.Context, p CreateAdminParams) (*models.Admin, error) {
	if !p.Role.IsAdmin() {
		return nil, apperr.Validation("role must be an admin role")
	}
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", email).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if len(p.Password) < 8 {
				return apperr.Validation("password must be at least 8 characters")
			}
			hash, err := HashPassword(p.Password)
			if err != nil {
				return err
			}
			user = models.User{Email: email, Password: hash, FirstName: p.FirstName, LastName: p.LastName}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		err = tx.Where("user_id = ?", user.ID).First(&admin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			admin = models.Admin{UserID: user.ID, RoleID: p.Role, Position: p.Position}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&admin).Updates(map[string]interface{}{
				"role_id":  p.Role,
				"position": p.Position,
			}).Error; err != nil {
				return err
			}
			admin.RoleID = p.Role
			admin.Position = p.Position
		}
		admin.User = &user
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to create admin")
	}
	return &admin, nil
}
