package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100" example:"phuong1"`
	Password string `json:"password" validate:"required,min=6" example:"Secret123!"`
	Role     string `json:"role" validate:"required,oneof=admin city ward" example:"ward"`
	WardID   *int   `json:"ward_id" example:"1"`
	CityID   *int   `json:"city_id" example:"1"`
}

// swagger:model api.ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required" example:"OldSecret123!"`
	NewPassword string `json:"new_password" validate:"required,min=6" example:"NewSecret456!"`
}
