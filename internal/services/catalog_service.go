package services

import (
	"context"
	"strings"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/models"
	"gorm.io/gorm"
)

// HazardTypeService manages hazard categories.
type HazardTypeService struct {
	db *gorm.DB
}

func NewHazardTypeService(db *gorm.DB) *HazardTypeService {
	return &HazardTypeService{db: db}
}

func (s *HazardTypeService) Create(ctx context.Context, req *dto.CreateHazardTypeRequest) (*models.HazardType, error) {
	code := strings.ToUpper(strings.TrimSpace(req.ShortCode))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.HazardType{}).Where("short_code = ?", code).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to check hazard type")
	}
	if count > 0 {
		return nil, apperr.Conflict("hazard type with code %s already exists", code)
	}

	ht := models.HazardType{
		Name:      strings.TrimSpace(req.Name),
		ShortCode: code,
		IsPrivate: req.IsPrivate,
	}
	if err := s.db.WithContext(ctx).Create(&ht).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create hazard type")
	}
	return &ht, nil
}

func (s *HazardTypeService) List(ctx context.Context) ([]models.HazardType, error) {
	var types []models.HazardType
	if err := s.db.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list hazard types")
	}
	return types, nil
}

type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

func (s *LocationService) Create(ctx context.Context, req *dto.CreateLocationRequest) (*models.Location, error) {
	loc := models.Location{
		Name:      strings.TrimSpace(req.Name),
		GroupName: strings.TrimSpace(req.GroupName),
	}
	if err := s.db.WithContext(ctx).Create(&loc).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create location")
	}
	return &loc, nil
}

func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	var locs []models.Location
	if err := s.db.WithContext(ctx).Order("group_name, name").Find(&locs).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list locations")
	}
	return locs, nil
}
