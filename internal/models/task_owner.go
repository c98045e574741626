package models

import "time"

// TaskOwner assigns an admin to a hazard, either as the single owner or as
// one of its collaborators.
type TaskOwner struct {
	HazardID       uint      `gorm:"primaryKey;autoIncrement:false" json:"hazardId"`
	AdminID        uint      `gorm:"primaryKey;autoIncrement:false;index" json:"adminId"`
	IsCollaborator bool      `gorm:"not null;default:false" json:"isCollaborator"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TaskOwnerView is a task owner row joined with the admin's display data.
type TaskOwnerView struct {
	HazardID       uint   `json:"hazardId"`
	AdminID        uint   `json:"adminId"`
	IsCollaborator bool   `json:"isCollaborator"`
	Role           Role   `json:"role"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
}
