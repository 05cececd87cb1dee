package services

import (
	"testing"
	"time"

	"turno_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupScheduleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Municipality{},
		&models.Office{},
		&models.OfficeHours{},
		&models.Subject{},
		&models.EducationLevel{},
		&models.Requester{},
		&models.Ticket{},
		&models.TicketCounter{},
	)
	assert.NoError(t, err)

	return db
}

func seedOffice(t *testing.T, db *gorm.DB, name string) *models.Office {
	municipality := &models.Municipality{Name: name + " Municipality"}
	assert.NoError(t, db.Create(municipality).Error)

	office := &models.Office{Name: name, MunicipalityID: municipality.ID}
	assert.NoError(t, db.Create(office).Error)
	return office
}

func seedHours(t *testing.T, db *gorm.DB, officeID, weekday, opensAt, closesAt string, maxPerDay int) {
	assert.NoError(t, db.Create(&models.OfficeHours{
		OfficeID:      officeID,
		Weekday:       weekday,
		OpensAt:       opensAt,
		ClosesAt:      closesAt,
		MaxTicketsDay: maxPerDay,
	}).Error)
}

var bookSeq int

func bookSlot(t *testing.T, db *gorm.DB, office *models.Office, date time.Time, slot, status string) *models.Ticket {
	bookSeq++
	requester := &models.Requester{
		CURP:            "BOOK" + slot[:2] + slot[3:] + date.Format("0102") + "XXHDFR",
		SubmitterName:   "Booker",
		GivenName:       "Booker",
		PaternalSurname: "Slot",
		Mobile:          "5550000000",
	}
	assert.NoError(t, db.Create(requester).Error)

	subject := &models.Subject{Description: "Booking " + slot + date.Format("0102")}
	assert.NoError(t, db.Create(subject).Error)
	level := &models.EducationLevel{Name: "Level " + slot + date.Format("0102")}
	assert.NoError(t, db.Create(level).Error)

	ticket := &models.Ticket{
		RequesterID:      requester.ID,
		OfficeID:         office.ID,
		SubjectID:        subject.ID,
		EducationLevelID: level.ID,
		MunicipalityID:   office.MunicipalityID,
		Number:           bookSeq,
		ScheduledDate:    date,
		ScheduledTime:    slot,
		Status:           status,
		LookupCode:       requester.CURP,
	}
	assert.NoError(t, db.Create(ticket).Error)
	return ticket
}

func TestRoundUpToSlot(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "aligned instant stays put",
			in:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
			want: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "trailing seconds do not push forward",
			in:   time.Date(2026, 6, 1, 9, 0, 59, 0, time.UTC),
			want: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "one minute past rounds to next boundary",
			in:   time.Date(2026, 6, 1, 9, 1, 0, 0, time.UTC),
			want: time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "just before the half hour",
			in:   time.Date(2026, 6, 1, 9, 29, 0, 0, time.UTC),
			want: time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "past the last boundary overflows to next day",
			in:   time.Date(2026, 6, 1, 23, 45, 0, 0, time.UTC),
			want: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RoundUpToSlot(tc.in)
			assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
			// Rounding must be idempotent.
			assert.True(t, RoundUpToSlot(got).Equal(got))
		})
	}
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, models.WeekdayMonday, models.WeekdayName(time.Monday))
	assert.Equal(t, models.WeekdaySunday, models.WeekdayName(time.Sunday))

	// 2026-06-01 is a Monday
	assert.Equal(t, models.WeekdayMonday, models.WeekdayName(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).Weekday()))
}

func TestFindNextSlot(t *testing.T) {
	monday := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no configured hours means no availability", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Closed Office")

		_, _, err := FindNextSlot(db, office.ID, monday)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("before opening yields opening slot", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Morning Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "14:00", 50)

		date, slot, err := FindNextSlot(db, office.ID, monday.Add(8*time.Hour))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday))
		assert.Equal(t, "09:00", slot)
	})

	t.Run("mid-morning request rounds up within the window", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Rounding Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "14:00", 50)

		// 10:05 rounds to 10:30
		date, slot, err := FindNextSlot(db, office.ID, monday.Add(10*time.Hour+5*time.Minute))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday))
		assert.Equal(t, "10:30", slot)
	})

	t.Run("occupied slots are skipped in order", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Busy Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "14:00", 50)

		bookSlot(t, db, office, monday, "09:00", models.TicketStatusPending)
		bookSlot(t, db, office, monday, "09:30", models.TicketStatusResolved)

		date, slot, err := FindNextSlot(db, office.ID, monday.Add(8*time.Hour))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday))
		assert.Equal(t, "10:00", slot)
	})

	t.Run("cancelled tickets free their slot", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Freed Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "14:00", 50)

		bookSlot(t, db, office, monday, "09:00", models.TicketStatusCancelled)

		_, slot, err := FindNextSlot(db, office.ID, monday.Add(8*time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, "09:00", slot)
	})

	t.Run("last bookable slot leaves room before closing", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Tight Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "10:00", 50)

		// 09:30 is the last slot that still fits before 10:00; asking at
		// 09:20 rounds to 09:30.
		date, slot, err := FindNextSlot(db, office.ID, monday.Add(9*time.Hour+20*time.Minute))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday))
		assert.Equal(t, "09:30", slot)

		// Asking at 09:40 rounds past the last slot; the next Monday opens.
		date, slot, err = FindNextSlot(db, office.ID, monday.Add(9*time.Hour+40*time.Minute))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday.AddDate(0, 0, 7)))
		assert.Equal(t, "09:00", slot)
	})

	t.Run("window shorter than one slot never books", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Sliver Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "09:15", 50)

		_, _, err := FindNextSlot(db, office.ID, monday)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("day at capacity rolls to the next open day", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Capped Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "14:00", 1)
		seedHours(t, db, office.ID, models.WeekdayTuesday, "09:00", "14:00", 1)

		bookSlot(t, db, office, monday, "09:00", models.TicketStatusPending)

		date, slot, err := FindNextSlot(db, office.ID, monday.Add(8*time.Hour))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday.AddDate(0, 0, 1)))
		assert.Equal(t, "09:00", slot)
	})

	t.Run("cancelled tickets do not count toward capacity", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Uncapped Office")
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "14:00", 1)

		bookSlot(t, db, office, monday, "09:00", models.TicketStatusCancelled)

		date, slot, err := FindNextSlot(db, office.ID, monday.Add(8*time.Hour))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday))
		assert.Equal(t, "09:00", slot)
	})

	t.Run("closed weekdays are skipped", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Thursday Office")
		seedHours(t, db, office.ID, models.WeekdayThursday, "10:00", "12:00", 50)

		date, slot, err := FindNextSlot(db, office.ID, monday.Add(8*time.Hour))
		assert.NoError(t, err)
		assert.True(t, date.Equal(monday.AddDate(0, 0, 3)))
		assert.Equal(t, "10:00", slot)
	})

	t.Run("horizon exhausted when everything is booked", func(t *testing.T) {
		db := setupScheduleTestDB(t)
		office := seedOffice(t, db, "Full Office")
		// One slot per week; booking every occurrence within the horizon
		// leaves nothing to offer.
		seedHours(t, db, office.ID, models.WeekdayMonday, "09:00", "09:30", 50)

		for week := 0; week < 5; week++ {
			bookSlot(t, db, office, monday.AddDate(0, 0, 7*week), "09:00", models.TicketStatusPending)
		}

		_, _, err := FindNextSlot(db, office.ID, monday)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})
}
