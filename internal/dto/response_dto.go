package dto

import "strings"

// TransitionRequest is the body of start-analysis, response-body,
// approve/deny-request, finish-analysis, start-checking and
// confirm-response. Only the request decisions and response-body read it.
type TransitionRequest struct {
	ResponseBody *string `json:"response_body"`
}

type DenyResponseRequest struct {
	ReasonToDeny string `json:"reason_to_deny" validate:"required"`
}

func (r *DenyResponseRequest) Validate() []string {
	if r.ReasonToDeny != "" && strings.TrimSpace(r.ReasonToDeny) == "" {
		return []string{"reason_to_deny must not be blank"}
	}
	return nil
}

type TaskOwnerRequest struct {
	HazardID       uint `json:"hazard_id" validate:"required"`
	AdminID        uint `json:"admin_id" validate:"required"`
	IsCollaborator bool `json:"is_collaborator"`
}

type TaskOwnerKey struct {
	HazardID uint `json:"hazard_id" validate:"required"`
	AdminID  uint `json:"admin_id" validate:"required"`
}
