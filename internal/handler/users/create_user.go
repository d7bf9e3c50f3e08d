package users

import (
	"errors"
	"net/http"
	"strings"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"
	"kiosk-report/internal/middleware"
	"kiosk-report/internal/model"
	"kiosk-report/internal/policy"
	"kiosk-report/internal/store"

	"github.com/labstack/echo/v4"
)

// @Summary     Create a new user
// @Description 僅 admin 可建立；city 使用者需 city_id，ward 使用者需 city_id 與 ward_id
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者資料"
// @Success     201  {object} api.CreateUserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := middleware.ScopeFrom(c); !ok {
			return notAuthenticated(c)
		}

		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request body"})
		}
		req.Username = strings.TrimSpace(req.Username)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: err.Error()})
		}

		role := model.Role(req.Role)
		cityID, wardID, err := policy.NormalizeScope(role, req.CityID, req.WardID)
		if err != nil {
			detail := "Invalid role"
			if errors.Is(err, policy.ErrMissingScope) {
				detail = err.Error()
			}
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: detail})
		}
		if role == model.RoleWard {
			err := policy.CheckWardCity(c.Request().Context(), *cityID, *wardID, wardLookup(db))
			switch {
			case errors.Is(err, policy.ErrUnitNotFound):
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Unknown city or ward"})
			case errors.Is(err, policy.ErrWardMismatch):
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "ward_id does not belong to city_id"})
			case err != nil:
				return internalError(c, "lookup ward", err)
			}
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return internalError(c, "hash password", err)
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Username:     req.Username,
			PasswordHash: hash,
			Role:         role,
			WardID:       wardID,
			CityID:       cityID,
		})
		switch {
		case errors.Is(err, store.ErrConflict):
			return c.JSON(http.StatusConflict, api.ErrorResponse{Detail: "Username already exists"})
		case errors.Is(err, store.ErrInvalidReference):
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Unknown city or ward"})
		case err != nil:
			return internalError(c, "create user", err)
		}

		return c.JSON(http.StatusCreated, api.CreateUserResponse{
			Msg:  "User created successfully",
			User: api.NewUserResponse(*user),
		})
	}
}
