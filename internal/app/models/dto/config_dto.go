package dto

import "time"

// ConfigRequest represents a new exam period
type ConfigRequest struct {
	StartDate string `json:"startDate" binding:"required" example:"2025-06-01"`
	EndDate   string `json:"endDate" binding:"required" example:"2025-06-20"`
}

// UpdateConfigRequest represents a partial exam period update
type UpdateConfigRequest struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// ConfigResponse is the wire form of an exam period
type ConfigResponse struct {
	ID         int64     `json:"id"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
