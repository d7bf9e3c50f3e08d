package handler

import (
	"net/http"
	"time"

	"kiosk-report/internal/api"
	"kiosk-report/internal/cache"
	"kiosk-report/internal/database"

	"github.com/labstack/echo/v4"
)

const pingKey = "kiosk:ping"

// RootHandler 回傳服務運作訊息
// @Summary     Root
// @Tags        health
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Router      / [get]
func RootHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, api.MessageResponse{Msg: "API is running!"})
}

// PingHandler 健康檢查（需通過認證）
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.PingResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			c.Logger().Errorf("ping database: %v", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "database unhealthy"})
		}
		if err := cch.Set(ctx, pingKey, time.Now().Unix(), time.Minute).Err(); err != nil {
			c.Logger().Errorf("ping cache: %v", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, api.PingResponse{Message: "pong"})
	}
}
