package api

import (
	"time"

	"kiosk-report/internal/model"
)

// swagger:model api.UserResponse
type UserResponse struct {
	UserID    int       `json:"user_id" example:"1"`
	Username  string    `json:"username" example:"phuong1"`
	Role      string    `json:"role" example:"ward"`
	WardID    *int      `json:"ward_id" example:"1"`
	CityID    *int      `json:"city_id" example:"1"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		WardID:    u.WardID,
		CityID:    u.CityID,
		CreatedAt: u.CreatedAt,
	}
}

// swagger:model api.UserListResponse
type UserListResponse struct {
	Users   []UserResponse `json:"users"`
	Success bool           `json:"success" example:"true"`
}

// swagger:model api.CreateUserResponse
type CreateUserResponse struct {
	Msg  string       `json:"msg" example:"User created"`
	User UserResponse `json:"user"`
}
