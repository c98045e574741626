package dto

import "strings"

type CreateHazardTypeRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	ShortCode string `json:"short_code" validate:"required,alphanum,max=10"`
	IsPrivate bool   `json:"is_private"`
}

type CreateLocationRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	GroupName string `json:"group_name" validate:"max=150"`
}

// CreateHazardRequest is shared by the authenticated and external report
// endpoints. UserID comes from the token, never from the body.
type CreateHazardRequest struct {
	UserID       *uint  `json:"-"`
	Name         string `json:"name" validate:"max=150"`
	Email        string `json:"email" validate:"omitempty,email,max=255"`
	Phone        string `json:"phone" validate:"max=30"`
	HazardTypeID uint   `json:"hazard_type_id" validate:"required"`
	LocationID   uint   `json:"location_id" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Solution     string `json:"solution"`
}

// Validate enforces the contact rule for reporters without an account.
func (r *CreateHazardRequest) Validate() []string {
	var messages []string
	if strings.TrimSpace(r.Description) == "" && r.Description != "" {
		messages = append(messages, "description must not be blank")
	}
	if r.UserID != nil {
		return messages
	}
	if strings.TrimSpace(r.Name) == "" {
		messages = append(messages, "name is required when reporting without an account")
	}
	if strings.TrimSpace(r.Email) == "" {
		messages = append(messages, "email is required when reporting without an account")
	}
	if strings.TrimSpace(r.Phone) == "" {
		messages = append(messages, "phone is required when reporting without an account")
	}
	return messages
}
