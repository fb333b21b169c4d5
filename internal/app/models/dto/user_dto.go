package dto

// CreateUserRequest represents a new user
type CreateUserRequest struct {
	FirstName  string  `json:"firstName" binding:"required"`
	LastName   string  `json:"lastName" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Role       string  `json:"role" binding:"required"`
	GroupID    *int64  `json:"groupId"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Password   *string `json:"password" binding:"omitempty,max=72"`
	GoogleID   *string `json:"googleId"`
}

// UpdateUserRequest represents a partial user update. Absent fields are left unchanged.
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Role       *string `json:"role"`
	GroupID    *int64  `json:"groupId"`
	ClearGroup bool    `json:"clearGroup"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Password   *string `json:"password" binding:"omitempty,max=72"`
	IsActive   *bool   `json:"isActive"`
}
