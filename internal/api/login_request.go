package api

import "time"

// swagger:model api.LoginRequest
type LoginRequest struct {
	Username string `form:"username" validate:"required" example:"admin"`
	Password string `form:"password" validate:"required" example:"123456"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType   string    `json:"token_type" example:"bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
}
