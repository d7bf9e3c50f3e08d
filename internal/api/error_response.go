package api

// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Detail string `json:"detail" example:"Invalid credentials"`
}

// swagger:model api.MessageResponse
type MessageResponse struct {
	Msg string `json:"msg" example:"API is running!"`
}
