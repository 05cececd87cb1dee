package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Office represents a regional office where appointments take place
type Office struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:150;not null" json:"name"`

	MunicipalityID string       `gorm:"type:uuid;not null;index" json:"municipality_id"`
	Municipality   Municipality `gorm:"foreignKey:MunicipalityID" json:"municipality,omitempty"`

	// Relationships
	Hours   []OfficeHours `gorm:"foreignKey:OfficeID" json:"hours,omitempty"`
	Tickets []Ticket      `gorm:"foreignKey:OfficeID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (o *Office) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Office) TableName() string {
	return "offices"
}
