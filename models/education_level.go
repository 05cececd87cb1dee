package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EducationLevel is the education-level catalog (nivel educativo)
type EducationLevel struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:60;not null;uniqueIndex" json:"name"`

	Tickets []Ticket `gorm:"foreignKey:EducationLevelID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (e *EducationLevel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (EducationLevel) TableName() string {
	return "education_levels"
}
