package models

import "time"

// ExcelTemplate is a stored spreadsheet template
type ExcelTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type" example:"exam-report"`
	GroupID     *int64    `json:"groupId,omitempty"`
	Content     []byte    `json:"-"`
	FileName    string    `json:"fileName"`
	Description *string   `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
