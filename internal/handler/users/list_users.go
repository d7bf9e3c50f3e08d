package users

import (
	"net/http"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"
	"kiosk-report/internal/middleware"
	"kiosk-report/internal/policy"

	"github.com/labstack/echo/v4"
)

// @Summary     List users
// @Description admin 看到全部；city 看到同城市的 ward 使用者與自己；ward 只看到自己
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserListResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		scope, ok := middleware.ScopeFrom(c)
		if !ok {
			return notAuthenticated(c)
		}
		vis, err := policy.UserFilter(scope)
		if err != nil {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Detail: "Invalid role"})
		}

		users, err := listUsers(c.Request().Context(), db, vis)
		if err != nil {
			return internalError(c, "list users", err)
		}

		resp := api.UserListResponse{Users: make([]api.UserResponse, 0, len(users)), Success: true}
		for _, u := range users {
			resp.Users = append(resp.Users, api.NewUserResponse(u))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
