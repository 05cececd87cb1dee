package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin role constants
const (
	AdminRoleAdmin = "admin"
	AdminRoleStaff = "staff"
)

// Admin is a back-office user managing catalogs and ticket lifecycle
type Admin struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Password string `gorm:"size:60;not null" json:"-"` // bcrypt hash
	Name     string `gorm:"size:150;not null" json:"name"`
	Role     string `gorm:"size:20;not null;default:'staff'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Admin) TableName() string {
	return "admins"
}
