// File: internal/service/password.go
package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid password")

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// LegacySHA256 是舊系統的無鹽 SHA-256 十六進位雜湊，僅供驗證既有資料
func LegacySHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsLegacyHash 判斷雜湊是否仍為舊格式，登入成功後應改存 bcrypt
func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// ComparePassword 比對明文密碼與雜湊，成功回傳 nil
func ComparePassword(hash, password string) error {
	if IsLegacyHash(hash) {
		if subtle.ConstantTimeCompare([]byte(hash), []byte(LegacySHA256(password))) != 1 {
			return ErrInvalidPassword
		}
		return nil
	}
	if err := bcryptCompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
