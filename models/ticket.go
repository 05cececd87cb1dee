package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket status constants
const (
	TicketStatusPending   = "pending"
	TicketStatusResolved  = "resolved"
	TicketStatusCancelled = "cancelled"
)

// Ticket is an issued appointment slot (turno) with a per-municipality
// sequential folio number. Tickets are never hard-deleted; cancellation is
// a status transition.
type Ticket struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RequesterID string    `gorm:"type:uuid;not null;index" json:"requester_id"`
	Requester   Requester `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`

	OfficeID string `gorm:"type:uuid;not null;index;index:idx_ticket_slot,unique,where:status <> 'cancelled'" json:"office_id"`
	Office   Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`

	SubjectID string  `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject   Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`

	EducationLevelID string         `gorm:"type:uuid;not null;index" json:"education_level_id"`
	EducationLevel   EducationLevel `gorm:"foreignKey:EducationLevelID" json:"education_level,omitempty"`

	// MunicipalityID is denormalized from the office so the folio
	// uniqueness invariant lives in the schema.
	MunicipalityID string       `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_folio" json:"municipality_id"`
	Municipality   Municipality `gorm:"foreignKey:MunicipalityID" json:"municipality,omitempty"`

	// Number is the per-municipality sequential folio assigned under the
	// counter-row lock.
	Number int `gorm:"not null;uniqueIndex:idx_ticket_folio" json:"number"`

	// Appointment slot. ScheduledTime is the "HH:MM" slot-grid key; the
	// slot uniqueness constraint covers (office, date, time) among
	// non-cancelled tickets.
	ScheduledDate time.Time `gorm:"type:date;not null;index;index:idx_ticket_slot,unique,where:status <> 'cancelled'" json:"scheduled_date"`
	ScheduledTime string    `gorm:"size:5;not null;index:idx_ticket_slot,unique,where:status <> 'cancelled'" json:"scheduled_time"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// LookupCode is the requester's CURP at issuance time, kept on the
	// ticket for receipt lookups and QR payloads.
	LookupCode string `gorm:"size:18;not null;index" json:"lookup_code"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Ticket) TableName() string {
	return "tickets"
}

// IsValidTicketStatus checks if the status is valid
func IsValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusPending, TicketStatusResolved, TicketStatusCancelled:
		return true
	}
	return false
}

// IsCancellable checks if the ticket can still be cancelled
func (t *Ticket) IsCancellable() bool {
	return t.Status == TicketStatusPending
}

// IsEditable checks if the public edit flow may modify the ticket
func (t *Ticket) IsEditable() bool {
	return t.Status == TicketStatusPending
}

// AppointmentAt returns the full appointment instant assembled from the
// stored date and "HH:MM" slot time.
func (t *Ticket) AppointmentAt() time.Time {
	parsed, err := time.Parse("15:04", t.ScheduledTime)
	if err != nil {
		return t.ScheduledDate
	}
	return time.Date(t.ScheduledDate.Year(), t.ScheduledDate.Month(), t.ScheduledDate.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, t.ScheduledDate.Location())
}
