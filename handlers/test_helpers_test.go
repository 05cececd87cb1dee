package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"turno_app_go/config"
	"turno_app_go/db"
	"turno_app_go/models"
	"turno_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"),
		&gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Municipality{},
		&models.Office{},
		&models.OfficeHours{},
		&models.Subject{},
		&models.EducationLevel{},
		&models.Requester{},
		&models.Ticket{},
		&models.TicketCounter{},
		&models.Admin{},
		&models.Session{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

// seedBookableOffice creates a municipality, office, weekly hours, and the
// catalog rows a submission needs.
func seedBookableOffice(t *testing.T, testDB *gorm.DB) (office *models.Office, subject *models.Subject, level *models.EducationLevel) {
	municipality := &models.Municipality{Name: "Toluca"}
	assert.NoError(t, testDB.Create(municipality).Error)

	office = &models.Office{Name: "Oficina Centro", MunicipalityID: municipality.ID}
	assert.NoError(t, testDB.Create(office).Error)

	for _, weekday := range models.WeekdayNames {
		assert.NoError(t, testDB.Create(&models.OfficeHours{
			OfficeID:      office.ID,
			Weekday:       weekday,
			OpensAt:       "09:00",
			ClosesAt:      "15:00",
			MaxTicketsDay: 50,
		}).Error)
	}

	subject = &models.Subject{Description: "Constancia de estudios"}
	assert.NoError(t, testDB.Create(subject).Error)
	level = &models.EducationLevel{Name: "Primaria"}
	assert.NoError(t, testDB.Create(level).Error)
	return office, subject, level
}

func seedTestAdmin(t *testing.T, testDB *gorm.DB, role string) *models.Admin {
	hash, err := services.HashPassword("test-password")
	assert.NoError(t, err)

	admin := &models.Admin{
		Username: "admin-" + role,
		Name:     "Test Admin",
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, testDB.Create(admin).Error)
	return admin
}
