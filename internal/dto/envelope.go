package dto

// DataResponse wraps every successful payload.
type DataResponse struct {
	Error bool `json:"error"`
	Data  any  `json:"data"`
}

func OK(data any) DataResponse {
	return DataResponse{Data: data}
}

// ErrorResponse is the single failure shape. Messages is set only for
// validation failures.
type ErrorResponse struct {
	Error    bool     `json:"error"`
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
