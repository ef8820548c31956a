package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	RoleID       uint           `json:"role_id" gorm:"not null;index"`
	IsActive     bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relations
	Role    Role         `json:"role" gorm:"foreignKey:RoleID"`
	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserProfile carries descriptive fields and department membership of a user.
type UserProfile struct {
	UserID       uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	FullName     string    `json:"full_name" gorm:"size:255"`
	Email        string    `json:"email" gorm:"size:255"`
	Phone        string    `json:"phone" gorm:"size:30"`
	DepartmentID *uint     `json:"department_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT"`
}
