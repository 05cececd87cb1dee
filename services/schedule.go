package services

import (
	"errors"
	"fmt"
	"time"

	"turno_app_go/models"

	"gorm.io/gorm"
)

const (
	// SlotDurationMinutes is the fixed appointment slot granularity. The
	// same constant drives rounding and slot stepping so the two can
	// never drift apart.
	SlotDurationMinutes = 30

	// SearchHorizonDays bounds how many calendar days the slot finder
	// scans before giving up.
	SearchHorizonDays = 30
)

// RoundUpToSlot rounds t up to the next multiple of the slot grid within
// the same day (overflowing into the next day when t is past the last
// boundary). Rounding an already-aligned instant returns that instant;
// seconds below a full minute never push the result forward.
func RoundUpToSlot(t time.Time) time.Time {
	minutes := t.Hour()*60 + t.Minute()
	rounded := (minutes + SlotDurationMinutes - 1) / SlotDurationMinutes * SlotDurationMinutes
	return dayStart(t).Add(time.Duration(rounded) * time.Minute)
}

// FindNextSlot scans forward from now through the office's weekly hours
// and returns the earliest free slot as (date, "HH:MM"). The reads it
// performs are advisory: the caller's insert must still be validated by
// the slot unique constraint.
func FindNextSlot(dbConn *gorm.DB, officeID string, now time.Time) (time.Time, string, error) {
	searchStart := RoundUpToSlot(now)

	for i := 0; i < SearchHorizonDays; i++ {
		date := dayStart(searchStart.AddDate(0, 0, i))
		weekday := models.WeekdayName(date.Weekday())

		var hours models.OfficeHours
		err := dbConn.Where("office_id = ? AND weekday = ?", officeID, weekday).
			First(&hours).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // office closed this weekday
		}
		if err != nil {
			return time.Time{}, "", fmt.Errorf("failed to load office hours: %w", err)
		}

		var booked int64
		err = dbConn.Model(&models.Ticket{}).
			Where("office_id = ? AND scheduled_date = ? AND status <> ?",
				officeID, date, models.TicketStatusCancelled).
			Count(&booked).Error
		if err != nil {
			return time.Time{}, "", fmt.Errorf("failed to count booked tickets: %w", err)
		}
		if booked >= int64(hours.MaxTicketsDay) {
			continue // day at capacity
		}

		opensAt, err := parseClock(hours.OpensAt)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("bad opening time %q: %w", hours.OpensAt, err)
		}
		closesAt, err := parseClock(hours.ClosesAt)
		if err != nil {
			return time.Time{}, "", fmt.Errorf("bad closing time %q: %w", hours.ClosesAt, err)
		}

		// A ticket must fit entirely before closing.
		lastBookable := closesAt - SlotDurationMinutes

		firstCandidate := opensAt
		if date.Equal(dayStart(searchStart)) {
			// On the day the scan starts, never offer a slot earlier than
			// the rounded "now", nor earlier than opening.
			fromNow := searchStart.Hour()*60 + searchStart.Minute()
			if fromNow > firstCandidate {
				firstCandidate = fromNow
			}
		}

		if firstCandidate > lastBookable {
			continue // no slot fits before closing (also covers windows shorter than one slot)
		}

		for minute := firstCandidate; minute <= lastBookable; minute += SlotDurationMinutes {
			slot := formatClock(minute)

			var occupied int64
			err = dbConn.Model(&models.Ticket{}).
				Where("office_id = ? AND scheduled_date = ? AND scheduled_time = ? AND status <> ?",
					officeID, date, slot, models.TicketStatusCancelled).
				Count(&occupied).Error
			if err != nil {
				return time.Time{}, "", fmt.Errorf("failed to check slot occupancy: %w", err)
			}
			if occupied == 0 {
				return date, slot, nil
			}
		}
	}

	return time.Time{}, "", ErrNoAvailability
}

// dayStart truncates t to midnight in its own location
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseClock converts an "HH:MM" string to minutes since midnight
func parseClock(clock string) (int, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// formatClock converts minutes since midnight to an "HH:MM" string
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
