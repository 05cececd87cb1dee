package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Requester is the citizen asking for a ticket (solicitante). Identified
// by CURP; resubmissions with the same CURP overwrite the mutable fields.
type Requester struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CURP string `gorm:"size:18;not null;uniqueIndex" json:"curp"`

	// SubmitterName is the full name of whoever fills the form, which may
	// differ from the requester (a parent filing for a student).
	SubmitterName   string `gorm:"size:120;not null" json:"submitter_name"`
	GivenName       string `gorm:"size:100;not null" json:"given_name"`
	PaternalSurname string `gorm:"size:60;not null" json:"paternal_surname"`
	MaternalSurname string `gorm:"size:60" json:"maternal_surname"`
	Phone           string `gorm:"size:10" json:"phone"`
	Mobile          string `gorm:"size:10;not null" json:"mobile"`
	Email           string `gorm:"size:150" json:"email"`

	Tickets []Ticket `gorm:"foreignKey:RequesterID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (r *Requester) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Requester) TableName() string {
	return "requesters"
}

// FullName returns the requester's assembled display name
func (r *Requester) FullName() string {
	name := r.GivenName + " " + r.PaternalSurname
	if r.MaternalSurname != "" {
		name += " " + r.MaternalSurname
	}
	return name
}
