package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Weekday keys used by the schedule. The scheduler maps time.Weekday into
// this same 7-value space, so the schedule repository and the slot finder
// always agree on day names.
const (
	WeekdayMonday    = "lunes"
	WeekdayTuesday   = "martes"
	WeekdayWednesday = "miercoles"
	WeekdayThursday  = "jueves"
	WeekdayFriday    = "viernes"
	WeekdaySaturday  = "sabado"
	WeekdaySunday    = "domingo"
)

// WeekdayNames lists the weekday keys in Monday-first order for admin forms.
var WeekdayNames = []string{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
	WeekdaySunday,
}

// WeekdayName maps a time.Weekday to the schedule's weekday key.
func WeekdayName(d time.Weekday) string {
	switch d {
	case time.Monday:
		return WeekdayMonday
	case time.Tuesday:
		return WeekdayTuesday
	case time.Wednesday:
		return WeekdayWednesday
	case time.Thursday:
		return WeekdayThursday
	case time.Friday:
		return WeekdayFriday
	case time.Saturday:
		return WeekdaySaturday
	default:
		return WeekdaySunday
	}
}

// IsValidWeekday checks if the weekday key is one of the 7 known values
func IsValidWeekday(name string) bool {
	for _, d := range WeekdayNames {
		if d == name {
			return true
		}
	}
	return false
}

// OfficeHours is one weekly opening-hours row for an office. At most one
// row per (office, weekday).
type OfficeHours struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OfficeID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_office_weekday" json:"office_id"`
	Office   Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`

	Weekday       string `gorm:"size:10;not null;uniqueIndex:idx_office_weekday" json:"weekday"`
	OpensAt       string `gorm:"size:5;not null" json:"opens_at"`  // "09:00"
	ClosesAt      string `gorm:"size:5;not null" json:"closes_at"` // "17:00"
	MaxTicketsDay int    `gorm:"not null;default:50" json:"max_tickets_day"`
}

// BeforeCreate hook to generate UUID
func (h *OfficeHours) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (OfficeHours) TableName() string {
	return "office_hours"
}
