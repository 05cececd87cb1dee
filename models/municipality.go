package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Municipality is a top-level catalog entry. Every regional office belongs
// to exactly one municipality, and ticket folios are numbered per
// municipality through TicketCounter.
type Municipality struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`

	// Relationships
	Offices []Office       `gorm:"foreignKey:MunicipalityID" json:"offices,omitempty"`
	Counter *TicketCounter `gorm:"foreignKey:MunicipalityID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (m *Municipality) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Municipality) TableName() string {
	return "municipalities"
}
