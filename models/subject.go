package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is the reason-for-visit catalog (asunto)
type Subject struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Description string `gorm:"size:200;not null;uniqueIndex" json:"description"`

	Tickets []Ticket `gorm:"foreignKey:SubjectID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Subject) TableName() string {
	return "subjects"
}
