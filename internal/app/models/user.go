package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" example:"1"`
	FirstName    string    `json:"firstName" example:"Tudor"`
	LastName     string    `json:"lastName" example:"Albu"`
	Email        string    `json:"email" example:"tudor.albu@student.usv.ro"`
	Role         Role      `json:"role" example:"SG"`
	GroupID      *int64    `json:"groupId"`
	Phone        *string   `json:"phone,omitempty"`
	Department   *string   `json:"department,omitempty"`
	PasswordHash *string   `json:"-"`
	GoogleID     *string   `json:"googleId,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns "Last First", the order used on exam listings
func (u *User) FullName() string {
	return strings.TrimSpace(u.LastName + " " + u.FirstName)
}
