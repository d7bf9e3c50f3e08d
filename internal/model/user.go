// File: internal/model/user.go
package model

import "time"

// Role 為使用者的權限層級
type Role string

const (
	RoleAdmin Role = "admin" // 全國
	RoleCity  Role = "city"  // 城市（區域）
	RoleWard  Role = "ward"  // 坊（基層單位）
)

// Valid 判斷是否為已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCity, RoleWard:
		return true
	}
	return false
}

type User struct {
	ID           int       `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	WardID       *int      `db:"ward_id" json:"ward_id"`
	CityID       *int      `db:"city_id" json:"city_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
