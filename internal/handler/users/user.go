package users

import (
	"net/http"

	"kiosk-report/internal/api"
	"kiosk-report/internal/service"
	"kiosk-report/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword       = service.HashPassword
	comparePassword    = service.ComparePassword
	listUsers          = store.ListUsers
	createUser         = store.CreateUser
	getUserByID        = store.GetUserByID
	updateUserPassword = store.UpdateUserPassword
	deleteUser         = store.DeleteUser
	wardLookup         = store.WardLookup
)

func internalError(c echo.Context, op string, err error) error {
	c.Logger().Errorf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "Internal server error"})
}

func notAuthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "Not authenticated"})
}
