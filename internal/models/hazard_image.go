package models

import "time"

type HazardImage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HazardID    uint      `gorm:"not null;index" json:"hazardId"`
	ObjectKey   string    `gorm:"not null;size:255;uniqueIndex" json:"objectKey"`
	ContentType string    `gorm:"size:100" json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  uint      `gorm:"not null" json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	URL         string    `gorm:"-" json:"url,omitempty"`
}
