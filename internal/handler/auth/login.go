package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"
	"kiosk-report/internal/metrics"
	"kiosk-report/internal/model"
	"kiosk-report/internal/service"
	"kiosk-report/internal/store"

	"github.com/labstack/echo/v4"
)

// TokenIssuer 由 service.TokenService 實作
type TokenIssuer interface {
	Issue(user model.User) (string, time.Time, error)
}

// AttemptLimiter 由 cache.Limiter 實作
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Window() time.Duration
}

var (
	getUserByName      = store.GetUserByName
	updateUserPassword = store.UpdateUserPassword
	comparePassword    = service.ComparePassword
	hashPassword       = service.HashPassword
	isLegacyHash       = service.IsLegacyHash
)

const invalidCredentials = "Invalid credentials"

// LoginHandler 使用 Username/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證，回傳存取令牌與到期時間；同一帳號與來源 IP 的嘗試次數受限
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "使用者名稱"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} api.LoginResponse
// @Failure     400      {object} api.ErrorResponse
// @Failure     401      {object} api.ErrorResponse
// @Failure     429      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /login [post]
func LoginHandler(db database.DB, tokens TokenIssuer, limiter AttemptLimiter) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: err.Error()})
		}
		ctx := c.Request().Context()

		if limiter != nil {
			ok, err := limiter.Allow(ctx, req.Username+"|"+c.RealIP())
			if err != nil {
				c.Logger().Errorf("login limiter: %v", err)
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "Internal server error"})
			}
			if !ok {
				metrics.Logins.WithLabelValues(metrics.LoginThrottled).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
				return c.JSON(http.StatusTooManyRequests, api.ErrorResponse{Detail: "Too many login attempts"})
			}
		}

		user, err := getUserByName(ctx, db, req.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.Logins.WithLabelValues(metrics.LoginFailure).Inc()
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: invalidCredentials})
			}
			c.Logger().Errorf("login lookup %q: %v", req.Username, err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "Internal server error"})
		}

		if err := comparePassword(user.PasswordHash, req.Password); err != nil {
			metrics.Logins.WithLabelValues(metrics.LoginFailure).Inc()
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: invalidCredentials})
		}

		// 舊版 SHA-256 雜湊於登入成功後改存 bcrypt；失敗不影響登入
		if isLegacyHash(user.PasswordHash) {
			if hash, err := hashPassword(req.Password); err != nil {
				c.Logger().Warnf("rehash user %d: %v", user.ID, err)
			} else if err := updateUserPassword(ctx, db, user.ID, user.PasswordHash, hash); err != nil {
				c.Logger().Warnf("rehash user %d: %v", user.ID, err)
			}
		}

		token, exp, err := tokens.Issue(*user)
		if err != nil {
			c.Logger().Errorf("issue token: %v", err)
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to issue token"})
		}

		metrics.Logins.WithLabelValues(metrics.LoginSuccess).Inc()
		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   exp,
		})
	}
}
