package domain

import "time"

type UserRole string

const (
	UserRoleClient UserRole = "CLIENT"
	UserRoleSeller UserRole = "SELLER"
	UserRoleStaff  UserRole = "STAFF"
	UserRoleAdmin  UserRole = "ADMIN"
)

type User struct {
	ID           int32     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
