package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HazardService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewHazardService wires the hazard store. store may be nil when image
// storage is disabled.
func NewHazardService(db *gorm.DB, store storage.ObjectStore) *HazardService {
	return &HazardService{db: db, store: store}
}

// Create inserts a hazard with its generated code and initial response in
// one transaction.
func (s *HazardService) Create(ctx context.Context, req *dto.CreateHazardRequest) (*models.Hazard, error) {
	var hazard models.Hazard
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ht models.HazardType
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ht, req.HazardTypeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("hazard type %d not found", req.HazardTypeID)
		}
		if err != nil {
			return err
		}

		var loc models.Location
		err = tx.First(&loc, req.LocationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("location %d not found", req.LocationID)
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.HazardType{}).Where("id = ?", ht.ID).
			Update("last_index", gorm.Expr("last_index + ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.HazardType{}).Select("last_index").Where("id = ?", ht.ID).
			Scan(&ht.LastIndex).Error; err != nil {
			return err
		}

		hazard = models.Hazard{
			Code:         models.HazardCode(ht.ShortCode, ht.LastIndex),
			UserID:       req.UserID,
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.TrimSpace(req.Email),
			Phone:        strings.TrimSpace(req.Phone),
			HazardTypeID: ht.ID,
			LocationID:   loc.ID,
			Description:  strings.TrimSpace(req.Description),
			Solution:     strings.TrimSpace(req.Solution),
		}
		if err := tx.Omit(clause.Associations).Create(&hazard).Error; err != nil {
			return err
		}

		response := models.NewResponse(hazard.ID, time.Now().UTC())
		if err := tx.Create(response).Error; err != nil {
			return err
		}

		hazard.HazardType = &ht
		hazard.Location = &loc
		hazard.Response = response
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to create hazard")
	}
	return &hazard, nil
}

func (s *HazardService) Get(ctx context.Context, id uint) (*models.Hazard, error) {
	var hazard models.Hazard
	err := s.db.WithContext(ctx).
		Scopes(withDetails).
		First(&hazard, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("hazard %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load hazard")
	}
	return &hazard, nil
}

type ListHazardsParams struct {
	Role     models.Role
	Page     int
	PageSize int
}

// List returns hazards newest first. Hazards of private types are listed
// only for special and super admins.
func (s *HazardService) List(ctx context.Context, p ListHazardsParams) ([]models.Hazard, error) {
	var hazards []models.Hazard
	err := s.db.WithContext(ctx).
		Scopes(visibleTo(p.Role), withDetails, paginate(p.Page, p.PageSize)).
		Order("id DESC").
		Find(&hazards).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to list hazards")
	}
	return hazards, nil
}

func (s *HazardService) ListByUser(ctx context.Context, userID uint) ([]models.Hazard, error) {
	var hazards []models.Hazard
	err := s.db.WithContext(ctx).
		Scopes(withDetails).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&hazards).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to list hazards")
	}
	return hazards, nil
}

// Delete removes a hazard with its response, owners and images. Stored
// image objects are removed after the commit on a best-effort basis.
func (s *HazardService) Delete(ctx context.Context, id uint) error {
	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.HazardImage{}).Where("hazard_id = ?", id).Pluck("object_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("hazard_id = ?", id).Delete(&models.HazardImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hazard_id = ?", id).Delete(&models.TaskOwner{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hazard_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Hazard{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("hazard %d not found", id)
		}
		return nil
	})
	if err != nil {
		return asAppError(err, "failed to delete hazard")
	}

	if s.store != nil {
		for _, key := range keys {
			if err := s.store.Remove(ctx, key); err != nil {
				slog.Error("failed to remove hazard image", "hazard_id", id, "key", key, "error", err)
			}
		}
	}
	return nil
}

// asAppError passes typed errors through and wraps anything else as
// internal.
func asAppError(err error, msg string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Internal(err, msg)
}
