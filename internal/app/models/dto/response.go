package dto

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Data      interface{}  `json:"data"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// CountResponse reports how many rows an operation touched
type CountResponse struct {
	Count   int64  `json:"count"`
	Message string `json:"message,omitempty"`
}

// NewSuccessResponse wraps data in the response envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Data: data, Timestamp: time.Now()}
}
