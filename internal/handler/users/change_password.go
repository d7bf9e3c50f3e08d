package users

import (
	"errors"
	"net/http"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"
	"kiosk-report/internal/middleware"
	"kiosk-report/internal/store"

	"github.com/labstack/echo/v4"
)

// @Summary     Change own password
// @Description 驗證舊密碼後更新為新密碼；期間若密碼已被變更則回傳 409
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.ChangePasswordRequest true "舊密碼與新密碼"
// @Success     200  {object} api.MessageResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/change-password [post]
func ChangePasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		scope, ok := middleware.ScopeFrom(c)
		if !ok {
			return notAuthenticated(c)
		}

		var req api.ChangePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: err.Error()})
		}
		ctx := c.Request().Context()

		user, err := getUserByID(ctx, db, scope.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "User not found"})
			}
			return internalError(c, "get user", err)
		}
		if err := comparePassword(user.PasswordHash, req.OldPassword); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "Wrong old password"})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return internalError(c, "hash password", err)
		}
		if err := updateUserPassword(ctx, db, user.ID, user.PasswordHash, hash); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Detail: "Password was changed concurrently, please retry"})
			}
			return internalError(c, "update password", err)
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Msg: "Password changed successfully"})
	}
}
