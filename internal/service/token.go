// File: internal/service/token.go
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"kiosk-report/internal/model"
	"kiosk-report/internal/policy"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidClaims = errors.New("invalid token format")

// CustomClaims 定義 JWT 負載內容；範圍欄位以明文存放
type CustomClaims struct {
	UserID   int        `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	WardID   *int       `json:"ward_id"`
	CityID   *int       `json:"city_id"`
	jwt.RegisteredClaims
}

// Scope 轉為存取政策使用的呼叫者範圍
func (c *CustomClaims) Scope() policy.Scope {
	return policy.Scope{
		UserID:   c.UserID,
		Username: c.Username,
		Role:     c.Role,
		CityID:   c.CityID,
		WardID:   c.WardID,
	}
}

// TokenService 以固定密鑰與有效期簽發、驗證存取令牌
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not set")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token TTL %s", ttl)
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue 依使用者資訊產生 JWT，並回傳到期時間
func (s *TokenService) Issue(user model.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		WardID:   user.WardID,
		CityID:   user.CityID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Verify 驗證並解析 JWT；過期時回傳包裹 jwt.ErrTokenExpired 的錯誤
func (s *TokenService) Verify(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == 0 || claims.Username == "" || claims.Role == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
