package models

import "time"

// Notification is an in-app message delivered to a user
type Notification struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Message  string    `json:"message"`
	Status   string    `json:"status" example:"trimis"`
	DateSent time.Time `json:"dateSent"`
}
