package models

import "time"

// HazardType categorizes hazards. Private types restrict their hazards to
// special admins and owners; LastIndex feeds the generated hazard code.
type HazardType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:150" json:"name"`
	ShortCode string    `gorm:"not null;size:10;uniqueIndex" json:"shortCode"`
	IsPrivate bool      `gorm:"not null;default:false" json:"isPrivate"`
	LastIndex uint      `gorm:"not null;default:0" json:"lastIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
