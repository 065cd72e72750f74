package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleManager        UserRole = "manager"
	RoleSalesExecutive UserRole = "sales_executive"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"not null"`
	Role         UserRole       `json:"role" gorm:"not null"`
	Organization string         `json:"organization"`
	Mobile       string         `json:"mobile" gorm:"uniqueIndex"`
	Status       UserStatus     `json:"status" gorm:"default:'active'"`
	LastLogin    *time.Time     `json:"last_login"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Privileged reports whether the role may answer, propose solutions or
// review queries.
func (r UserRole) Privileged() bool {
	return r == RoleAdmin || r == RoleManager
}
