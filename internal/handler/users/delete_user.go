package users

import (
	"errors"
	"net/http"
	"strconv"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"
	"kiosk-report/internal/store"

	"github.com/labstack/echo/v4"
)

// @Summary     Delete a user by ID
// @Description 僅 admin 可刪除使用者
// @Tags        users
// @Produce     json
// @Param       user_id path     int true "使用者 ID"
// @Success     200     {object} api.MessageResponse
// @Failure     400     {object} api.ErrorResponse "參數錯誤"
// @Failure     403     {object} api.ErrorResponse
// @Failure     404     {object} api.ErrorResponse "使用者不存在"
// @Failure     500     {object} api.ErrorResponse "伺服器錯誤"
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("user_id"))
		if err != nil || id <= 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid user ID"})
		}
		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "User not found"})
			}
			return internalError(c, "delete user", err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Msg: "User deleted successfully"})
	}
}
