package services

import (
	"github.com/miat-mn/action-log/internal/models"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// visibleTo hides hazards of private types from roles outside the owner
// gate.
func visibleTo(role models.Role) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if role.In(models.OwnerGate) {
			return db
		}
		public := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.HazardType{}).Select("id").Where("is_private = ?", false)
		return db.Where("hazard_type_id IN (?)", public)
	}
}

// paginate applies a 1-based page with the size clamped to maxPageSize.
func paginate(page, size int) func(db *gorm.DB) *gorm.DB {
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(size).Offset((page - 1) * size)
	}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("HazardType").Preload("Location").Preload("Response")
}
