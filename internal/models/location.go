package models

import "time"

type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:150" json:"name"`
	GroupName string    `gorm:"size:150" json:"groupName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
