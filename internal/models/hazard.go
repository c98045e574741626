package models

import (
	"fmt"
	"time"
)

// Hazard is a reported safety issue. UserID is nil for external reporters,
// who must leave contact details instead.
type Hazard struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Code         string      `gorm:"not null;size:30;uniqueIndex" json:"code"`
	UserID       *uint       `gorm:"index" json:"userId"`
	Name         string      `gorm:"size:150" json:"name,omitempty"`
	Email        string      `gorm:"size:255" json:"email,omitempty"`
	Phone        string      `gorm:"size:30" json:"phone,omitempty"`
	HazardTypeID uint        `gorm:"not null;index" json:"hazardTypeId"`
	LocationID   uint        `gorm:"not null;index" json:"locationId"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Solution     string      `gorm:"type:text" json:"solution"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	HazardType   *HazardType `gorm:"foreignKey:HazardTypeID" json:"hazardType,omitempty"`
	Location     *Location   `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Response     *Response   `gorm:"foreignKey:HazardID" json:"response,omitempty"`
}

// HazardCode formats the human-readable code, e.g. "FIRE-0007".
func HazardCode(shortCode string, index uint) string {
	return fmt.Sprintf("%s-%04d", shortCode, index)
}
