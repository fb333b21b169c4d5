package dto

// LoginRequest represents admin login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,email" example:"admin@usv.ro"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries a Google ID token, or an "email|role|groupId" token in development
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=4,max=72"`
}

// AuthUser is the user summary returned with a token
type AuthUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	GroupID   *int64 `json:"groupId"`
}

// TokenResponse represents successful authentication
type TokenResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType" example:"Bearer"`
	ExpiresIn int      `json:"expiresIn"`
	User      AuthUser `json:"user"`
}
