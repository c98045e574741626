package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/storage"
	"gorm.io/gorm"
)

const (
	MaxImageSize   = 10 << 20
	imageURLExpiry = 15 * time.Minute
)

type ImageService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

func NewImageService(db *gorm.DB, store storage.ObjectStore) *ImageService {
	return &ImageService{db: db, store: store}
}

type UploadImageParams struct {
	HazardID    uint
	UploadedBy  uint
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores the image object first and then records it. A failed
// insert removes the orphaned object.
func (s *ImageService) Upload(ctx context.Context, p UploadImageParams) (*models.HazardImage, error) {
	if !strings.HasPrefix(p.ContentType, "image/") {
		return nil, apperr.Validation("file must be an image")
	}
	if p.Size <= 0 || p.Size > MaxImageSize {
		return nil, apperr.Validation(fmt.Sprintf("image size must be between 1 byte and %d bytes", MaxImageSize))
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Hazard{}).Where("id = ?", p.HazardID).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load hazard")
	}
	if count == 0 {
		return nil, apperr.NotFound("hazard %d not found", p.HazardID)
	}

	key := fmt.Sprintf("hazards/%d/%s%s", p.HazardID, uuid.New().String(), strings.ToLower(filepath.Ext(p.Filename)))
	if err := s.store.Put(ctx, key, p.Body, p.Size, p.ContentType); err != nil {
		return nil, apperr.Internal(err, "failed to store image")
	}

	image := models.HazardImage{
		HazardID:    p.HazardID,
		ObjectKey:   key,
		ContentType: p.ContentType,
		Size:        p.Size,
		UploadedBy:  p.UploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			slog.Error("failed to remove orphaned image", "key", key, "error", rmErr)
		}
		return nil, apperr.Internal(err, "failed to record image")
	}

	image.URL, _ = s.store.PresignGet(ctx, key, imageURLExpiry)
	return &image, nil
}

// List returns the hazard's images with short-lived download URLs.
func (s *ImageService) List(ctx context.Context, hazardID uint) ([]models.HazardImage, error) {
	images := make([]models.HazardImage, 0)
	if err := s.db.WithContext(ctx).Where("hazard_id = ?", hazardID).Order("id").Find(&images).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list images")
	}
	for i := range images {
		url, err := s.store.PresignGet(ctx, images[i].ObjectKey, imageURLExpiry)
		if err != nil {
			return nil, apperr.Internal(err, "failed to sign image url")
		}
		images[i].URL = url
	}
	return images, nil
}
