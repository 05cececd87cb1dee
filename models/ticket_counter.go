package models

import (
	"time"
)

// TicketCounter holds the last folio issued for a municipality. The row is
// read with a row-level exclusive lock inside the issuance transaction, so
// concurrent issuances for the same municipality serialize on it.
type TicketCounter struct {
	MunicipalityID string    `gorm:"type:uuid;primarykey" json:"municipality_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	LastNumber   int        `gorm:"not null;default:0" json:"last_number"`
	LastIssuedOn *time.Time `gorm:"type:date" json:"last_issued_on,omitempty"`

	Municipality Municipality `gorm:"foreignKey:MunicipalityID" json:"-"`
}

// TableName specifies the table name
func (TicketCounter) TableName() string {
	return "ticket_counters"
}
