package middleware

import (
	"errors"
	"net/http"
	"strings"

	"kiosk-report/internal/api"
	"kiosk-report/internal/policy"
	"kiosk-report/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// TokenVerifier 由 service.TokenService 實作
type TokenVerifier interface {
	Verify(token string) (*service.CustomClaims, error)
}

func unauthorized(c echo.Context, detail string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: detail})
}

func extractClaims(c echo.Context, verifier TokenVerifier) (*service.CustomClaims, string) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, "Not authenticated"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, "Not authenticated"
	}
	claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, "Token expired"
		}
		if errors.Is(err, service.ErrInvalidClaims) {
			return nil, "Invalid token format"
		}
		return nil, "Invalid token"
	}
	return claims, ""
}

// RequireAuth 驗證 Bearer token，並將 claims 存入 context
func RequireAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, detail := extractClaims(c, verifier)
			if claims == nil {
				return unauthorized(c, detail)
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin 必須接在 RequireAuth 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		scope, ok := ScopeFrom(c)
		if !ok {
			return unauthorized(c, "Not authenticated")
		}
		if err := policy.RequireAdmin(scope); err != nil {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Detail: "Permission denied"})
		}
		return next(c)
	}
}

// ClaimsFrom 取出 RequireAuth 存入的 claims
func ClaimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims != nil
}

func ScopeFrom(c echo.Context) (policy.Scope, bool) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return policy.Scope{}, false
	}
	return claims.Scope(), true
}
