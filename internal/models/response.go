package models

import "time"

type Status string

const (
	StatusReceived    Status = "Хүлээн авсан"
	StatusInProgress  Status = "Хийгдэж буй"
	StatusResolved    Status = "Шийдэгдсэн"
	StatusRejected    Status = "Татгалзсан"
	StatusUnderReview Status = "Хянагдаж буй"
	StatusApproved    Status = "Зөвшөөрсөн"
	StatusReturned    Status = "Буцаасан"
)

// Response is the workflow state of one hazard. Its flags change only
// through ResponseService transitions.
type Response struct {
	HazardID             uint       `gorm:"primaryKey;autoIncrement:false" json:"hazardId"`
	CurrentStatus        Status     `gorm:"not null;size:50" json:"currentStatus"`
	IsStarted            bool       `gorm:"not null;default:false" json:"isStarted"`
	ResponseBody         string     `gorm:"type:text" json:"responseBody"`
	IsRequestApproved    *bool      `json:"isRequestApproved"`
	IsResponseFinished   bool       `gorm:"not null;default:false" json:"isResponseFinished"`
	ResponseFinishedDate *time.Time `json:"responseFinishedDate"`
	IsCheckingResponse   bool       `gorm:"not null;default:false" json:"isCheckingResponse"`
	IsResponseConfirmed  bool       `gorm:"not null;default:false" json:"isResponseConfirmed"`
	IsResponseDenied     bool       `gorm:"not null;default:false" json:"isResponseDenied"`
	ReasonToDeny         string     `gorm:"type:text" json:"reasonToDeny"`
	DateUpdated          time.Time  `gorm:"not null" json:"dateUpdated"`
}

// NewResponse returns the initial state created alongside a hazard.
func NewResponse(hazardID uint, now time.Time) *Response {
	return &Response{
		HazardID:      hazardID,
		CurrentStatus: StatusReceived,
		DateUpdated:   now,
	}
}
