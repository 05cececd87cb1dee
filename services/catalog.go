package services

import (
	"errors"
	"fmt"
	"strings"

	"turno_app_go/models"

	"gorm.io/gorm"
)

// GetMunicipalities returns all municipalities ordered by name
func GetMunicipalities(dbConn *gorm.DB) ([]models.Municipality, error) {
	var municipalities []models.Municipality
	err := dbConn.Order("name asc").Find(&municipalities).Error
	return municipalities, err
}

// CreateMunicipality creates a new municipality
func CreateMunicipality(dbConn *gorm.DB, name string) (*models.Municipality, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	municipality := &models.Municipality{Name: name}
	if err := dbConn.Create(municipality).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return municipality, nil
}

// UpdateMunicipality renames a municipality
func UpdateMunicipality(dbConn *gorm.DB, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	result := dbConn.Model(&models.Municipality{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEntry
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// DeleteMunicipality removes a municipality unless an office references it
func DeleteMunicipality(dbConn *gorm.DB, id string) error {
	var inUse int64
	if err := dbConn.Model(&models.Office{}).Where("municipality_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCatalogInUse
	}
	result := dbConn.Delete(&models.Municipality{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// GetSubjects returns all subjects ordered by description
func GetSubjects(dbConn *gorm.DB) ([]models.Subject, error) {
	var subjects []models.Subject
	err := dbConn.Order("description asc").Find(&subjects).Error
	return subjects, err
}

// CreateSubject creates a new subject
func CreateSubject(dbConn *gorm.DB, description string) (*models.Subject, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	subject := &models.Subject{Description: description}
	if err := dbConn.Create(subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return subject, nil
}

// UpdateSubject renames a subject
func UpdateSubject(dbConn *gorm.DB, id, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("description is required")
	}
	result := dbConn.Model(&models.Subject{}).Where("id = ?", id).Update("description", description)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEntry
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// DeleteSubject removes a subject unless a ticket references it
func DeleteSubject(dbConn *gorm.DB, id string) error {
	var inUse int64
	if err := dbConn.Model(&models.Ticket{}).Where("subject_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCatalogInUse
	}
	result := dbConn.Delete(&models.Subject{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// GetEducationLevels returns all education levels in insertion order
func GetEducationLevels(dbConn *gorm.DB) ([]models.EducationLevel, error) {
	var levels []models.EducationLevel
	err := dbConn.Order("created_at asc").Find(&levels).Error
	return levels, err
}

// CreateEducationLevel creates a new education level
func CreateEducationLevel(dbConn *gorm.DB, name string) (*models.EducationLevel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	level := &models.EducationLevel{Name: name}
	if err := dbConn.Create(level).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return level, nil
}

// UpdateEducationLevel renames an education level
func UpdateEducationLevel(dbConn *gorm.DB, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	result := dbConn.Model(&models.EducationLevel{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEntry
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// DeleteEducationLevel removes a level unless a ticket references it
func DeleteEducationLevel(dbConn *gorm.DB, id string) error {
	var inUse int64
	if err := dbConn.Model(&models.Ticket{}).Where("education_level_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCatalogInUse
	}
	result := dbConn.Delete(&models.EducationLevel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// GetOffices returns all offices with their municipality loaded
func GetOffices(dbConn *gorm.DB) ([]models.Office, error) {
	var offices []models.Office
	err := dbConn.Preload("Municipality").Order("name asc").Find(&offices).Error
	return offices, err
}

// GetOfficesByMunicipality feeds the public office dropdown
func GetOfficesByMunicipality(dbConn *gorm.DB, municipalityID string) ([]models.Office, error) {
	var offices []models.Office
	err := dbConn.Where("municipality_id = ?", municipalityID).
		Order("name asc").Find(&offices).Error
	return offices, err
}

// CreateOffice creates an office under a municipality
func CreateOffice(dbConn *gorm.DB, name, municipalityID string) (*models.Office, error) {
	name = strings.TrimSpace(name)
	if name == "" || municipalityID == "" {
		return nil, fmt.Errorf("name and municipality are required")
	}
	var municipality models.Municipality
	if err := dbConn.First(&municipality, "id = ?", municipalityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogNotFound
		}
		return nil, err
	}
	office := &models.Office{Name: name, MunicipalityID: municipalityID}
	if err := dbConn.Create(office).Error; err != nil {
		return nil, err
	}
	return office, nil
}

// UpdateOffice renames an office and/or moves it to another municipality
func UpdateOffice(dbConn *gorm.DB, id, name, municipalityID string) error {
	name = strings.TrimSpace(name)
	if name == "" || municipalityID == "" {
		return fmt.Errorf("name and municipality are required")
	}
	result := dbConn.Model(&models.Office{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "municipality_id": municipalityID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// DeleteOffice removes an office unless a ticket references it. Its weekly
// hours go with it.
func DeleteOffice(dbConn *gorm.DB, id string) error {
	var inUse int64
	if err := dbConn.Model(&models.Ticket{}).Where("office_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCatalogInUse
	}
	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OfficeHours{}, "office_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Office{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCatalogNotFound
		}
		return nil
	})
}

// GetOfficeHours returns every hours row with its office, grouped for the
// admin listing
func GetOfficeHours(dbConn *gorm.DB) ([]models.OfficeHours, error) {
	var hours []models.OfficeHours
	err := dbConn.Preload("Office").Preload("Office.Municipality").
		Order("office_id asc, weekday asc").Find(&hours).Error
	return hours, err
}

// CreateOfficeHours creates one hours row per selected weekday, sharing a
// single open/close/capacity tuple. The whole batch succeeds or fails
// together.
func CreateOfficeHours(dbConn *gorm.DB, officeID string, weekdays []string, opensAt, closesAt string, maxTicketsDay int) error {
	if len(weekdays) == 0 {
		return fmt.Errorf("at least one weekday is required")
	}
	for _, day := range weekdays {
		if !models.IsValidWeekday(day) {
			return fmt.Errorf("unknown weekday %q", day)
		}
	}
	open, err := parseClock(opensAt)
	if err != nil {
		return fmt.Errorf("invalid opening time %q", opensAt)
	}
	closes, err := parseClock(closesAt)
	if err != nil {
		return fmt.Errorf("invalid closing time %q", closesAt)
	}
	if open >= closes {
		return fmt.Errorf("opening time must be before closing time")
	}
	if maxTicketsDay <= 0 {
		maxTicketsDay = 50
	}

	err = dbConn.Transaction(func(tx *gorm.DB) error {
		for _, day := range weekdays {
			row := models.OfficeHours{
				OfficeID:      officeID,
				Weekday:       day,
				OpensAt:       opensAt,
				ClosesAt:      closesAt,
				MaxTicketsDay: maxTicketsDay,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEntry
	}
	return err
}

// UpdateOfficeHours rewrites a single hours row
func UpdateOfficeHours(dbConn *gorm.DB, id, officeID, weekday, opensAt, closesAt string, maxTicketsDay int) error {
	if !models.IsValidWeekday(weekday) {
		return fmt.Errorf("unknown weekday %q", weekday)
	}
	open, err := parseClock(opensAt)
	if err != nil {
		return fmt.Errorf("invalid opening time %q", opensAt)
	}
	closes, err := parseClock(closesAt)
	if err != nil {
		return fmt.Errorf("invalid closing time %q", closesAt)
	}
	if open >= closes {
		return fmt.Errorf("opening time must be before closing time")
	}

	result := dbConn.Model(&models.OfficeHours{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"office_id":       officeID,
			"weekday":         weekday,
			"opens_at":        opensAt,
			"closes_at":       closesAt,
			"max_tickets_day": maxTicketsDay,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEntry
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}

// DeleteOfficeHours removes one hours row
func DeleteOfficeHours(dbConn *gorm.DB, id string) error {
	result := dbConn.Delete(&models.OfficeHours{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCatalogNotFound
	}
	return nil
}
