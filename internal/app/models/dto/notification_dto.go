package dto

// NotificationRequest represents a notification to create
type NotificationRequest struct {
	UserID  int64   `json:"userId" binding:"required"`
	Message string  `json:"message" binding:"required"`
	Status  *string `json:"status"`
}

// UpdateNotificationRequest represents a partial notification update
type UpdateNotificationRequest struct {
	Message *string `json:"message"`
	Status  *string `json:"status"`
}
