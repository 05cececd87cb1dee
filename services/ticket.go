package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"turno_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketInput carries the public submission form for a new ticket
type TicketInput struct {
	OfficeID         string `json:"office_id" form:"office_id"`
	SubjectID        string `json:"subject_id" form:"subject_id"`
	EducationLevelID string `json:"education_level_id" form:"education_level_id"`

	CURP            string `json:"curp" form:"curp"`
	SubmitterName   string `json:"submitter_name" form:"submitter_name"`
	GivenName       string `json:"given_name" form:"given_name"`
	PaternalSurname string `json:"paternal_surname" form:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname" form:"maternal_surname"`
	Phone           string `json:"phone" form:"phone"`
	Mobile          string `json:"mobile" form:"mobile"`
	Email           string `json:"email" form:"email"`
	Notes           string `json:"notes" form:"notes"`
}

// Validate rejects incomplete submissions before any transaction starts
func (in *TicketInput) Validate() []string {
	var problems []string

	if strings.TrimSpace(in.OfficeID) == "" {
		problems = append(problems, "office is required")
	}
	if strings.TrimSpace(in.SubjectID) == "" {
		problems = append(problems, "subject is required")
	}
	if strings.TrimSpace(in.EducationLevelID) == "" {
		problems = append(problems, "education level is required")
	}
	curp := strings.TrimSpace(in.CURP)
	if curp == "" {
		problems = append(problems, "CURP is required")
	} else if len(curp) != 18 {
		problems = append(problems, "CURP must be exactly 18 characters")
	}
	if strings.TrimSpace(in.SubmitterName) == "" {
		problems = append(problems, "submitter name is required")
	}
	if strings.TrimSpace(in.GivenName) == "" {
		problems = append(problems, "given name is required")
	}
	if strings.TrimSpace(in.PaternalSurname) == "" {
		problems = append(problems, "paternal surname is required")
	}
	if strings.TrimSpace(in.Mobile) == "" {
		problems = append(problems, "mobile number is required")
	}

	return problems
}

// IssueTicket books the next available slot for the office and assigns the
// next per-municipality folio, all inside one transaction.
func IssueTicket(dbConn *gorm.DB, input *TicketInput) (*models.Ticket, error) {
	return IssueTicketAt(dbConn, input, time.Now())
}

// IssueTicketAt is IssueTicket with an explicit "now", used by tests and
// by admin backfill tooling. The transaction performs, in order: slot
// search, requester upsert, counter lock + increment, ticket insert. Any
// failure rolls the whole thing back.
func IssueTicketAt(dbConn *gorm.DB, input *TicketInput, now time.Time) (*models.Ticket, error) {
	// Resolve the office up front so a bogus id is a validation error,
	// not a transaction abort.
	var office models.Office
	if err := dbConn.First(&office, "id = ?", input.OfficeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, fmt.Errorf("failed to load office: %w", err)
	}

	var ticket *models.Ticket
	err := dbConn.Transaction(func(tx *gorm.DB) error {
		date, slot, err := FindNextSlot(tx, office.ID, now)
		if err != nil {
			return err
		}

		requester, err := upsertRequester(tx, input)
		if err != nil {
			return err
		}

		number, err := nextFolio(tx, office.MunicipalityID, date)
		if err != nil {
			return err
		}

		ticket = &models.Ticket{
			RequesterID:      requester.ID,
			OfficeID:         office.ID,
			SubjectID:        input.SubjectID,
			EducationLevelID: input.EducationLevelID,
			MunicipalityID:   office.MunicipalityID,
			Number:           number,
			ScheduledDate:    date,
			ScheduledTime:    slot,
			Status:           models.TicketStatusPending,
			LookupCode:       strings.TrimSpace(input.CURP),
			Notes:            input.Notes,
		}
		return tx.Create(ticket).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two transactions observed the same slot as free; the unique
			// constraint is the final authority.
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	return GetTicketByID(dbConn, ticket.ID)
}

// upsertRequester looks up the requester by CURP and either creates it or
// overwrites its mutable fields with the newly submitted values.
func upsertRequester(tx *gorm.DB, input *TicketInput) (*models.Requester, error) {
	curp := strings.TrimSpace(input.CURP)

	var requester models.Requester
	err := tx.Where("curp = ?", curp).First(&requester).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		requester = models.Requester{
			CURP:            curp,
			SubmitterName:   input.SubmitterName,
			GivenName:       input.GivenName,
			PaternalSurname: input.PaternalSurname,
			MaternalSurname: input.MaternalSurname,
			Phone:           input.Phone,
			Mobile:          input.Mobile,
			Email:           input.Email,
		}
		if err := tx.Create(&requester).Error; err != nil {
			return nil, fmt.Errorf("failed to create requester: %w", err)
		}
		return &requester, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up requester: %w", err)
	}

	// Last submission wins.
	requester.SubmitterName = input.SubmitterName
	requester.GivenName = input.GivenName
	requester.PaternalSurname = input.PaternalSurname
	requester.MaternalSurname = input.MaternalSurname
	requester.Phone = input.Phone
	requester.Mobile = input.Mobile
	requester.Email = input.Email
	if err := tx.Save(&requester).Error; err != nil {
		return nil, fmt.Errorf("failed to update requester: %w", err)
	}
	return &requester, nil
}

// nextFolio locks the municipality's counter row and increments it. The
// lock is the sole serialization point for folio assignment: concurrent
// issuances for the same municipality queue here, while other
// municipalities proceed independently.
func nextFolio(tx *gorm.DB, municipalityID string, issuedOn time.Time) (int, error) {
	var counter models.TicketCounter
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("municipality_id = ?", municipalityID).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.TicketCounter{MunicipalityID: municipalityID}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("failed to create ticket counter: %w", err)
		}
	} else if err != nil {
		return 0, fmt.Errorf("failed to lock ticket counter: %w", err)
	}

	counter.LastNumber++
	counter.LastIssuedOn = &issuedOn
	if err := tx.Save(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to advance ticket counter: %w", err)
	}
	return counter.LastNumber, nil
}

// GetTicketByID fetches a single ticket with all display relations
func GetTicketByID(dbConn *gorm.DB, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := dbConn.Preload("Requester").Preload("Office").Preload("Office.Municipality").
		Preload("Subject").Preload("EducationLevel").Preload("Municipality").
		First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindTicket looks a ticket up by folio number and the requester's CURP.
// Both must match; a miss on either yields the same not-found error.
func FindTicket(dbConn *gorm.DB, number int, curp string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := dbConn.Preload("Requester").Preload("Office").Preload("Office.Municipality").
		Preload("Subject").Preload("EducationLevel").
		Joins("JOIN requesters ON requesters.id = tickets.requester_id").
		Where("tickets.number = ? AND requesters.curp = ?", number, strings.TrimSpace(curp)).
		First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindPendingTicket is FindTicket restricted to tickets the public flows
// may still act on
func FindPendingTicket(dbConn *gorm.DB, number int, curp string) (*models.Ticket, error) {
	ticket, err := FindTicket(dbConn, number, curp)
	if err != nil {
		return nil, err
	}
	if !ticket.IsEditable() {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// TicketUpdate carries the editable fields of an existing ticket. The
// assigned slot and folio are immutable and have no place here.
type TicketUpdate struct {
	OfficeID         string `json:"office_id" form:"office_id"`
	SubjectID        string `json:"subject_id" form:"subject_id"`
	EducationLevelID string `json:"education_level_id" form:"education_level_id"`

	SubmitterName   string `json:"submitter_name" form:"submitter_name"`
	GivenName       string `json:"given_name" form:"given_name"`
	PaternalSurname string `json:"paternal_surname" form:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname" form:"maternal_surname"`
	Phone           string `json:"phone" form:"phone"`
	Mobile          string `json:"mobile" form:"mobile"`
	Email           string `json:"email" form:"email"`
}

// EditTicket applies a public edit: the ticket must be found by folio +
// CURP and still be pending. Requester contact fields and the
// subject/office/level references change; the slot and folio never do.
func EditTicket(dbConn *gorm.DB, number int, curp string, upd *TicketUpdate) (*models.Ticket, error) {
	ticket, err := FindPendingTicket(dbConn, number, curp)
	if err != nil {
		return nil, err
	}
	if err := applyTicketUpdate(dbConn, ticket, upd); err != nil {
		return nil, err
	}
	return GetTicketByID(dbConn, ticket.ID)
}

// AdminEditTicket is the back-office edit; it works on any status
func AdminEditTicket(dbConn *gorm.DB, id string, upd *TicketUpdate) (*models.Ticket, error) {
	ticket, err := GetTicketByID(dbConn, id)
	if err != nil {
		return nil, err
	}
	if err := applyTicketUpdate(dbConn, ticket, upd); err != nil {
		return nil, err
	}
	return GetTicketByID(dbConn, ticket.ID)
}

// applyTicketUpdate treats the update as partial: an empty string means
// "leave unchanged". Optional fields can therefore be overwritten but
// never cleared through an edit; resubmitting is the way to blank them.
func applyTicketUpdate(dbConn *gorm.DB, ticket *models.Ticket, upd *TicketUpdate) error {
	return dbConn.Transaction(func(tx *gorm.DB) error {
		ticketUpdates := map[string]interface{}{}
		if upd.OfficeID != "" {
			ticketUpdates["office_id"] = upd.OfficeID
		}
		if upd.SubjectID != "" {
			ticketUpdates["subject_id"] = upd.SubjectID
		}
		if upd.EducationLevelID != "" {
			ticketUpdates["education_level_id"] = upd.EducationLevelID
		}
		if len(ticketUpdates) > 0 {
			if err := tx.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
				Updates(ticketUpdates).Error; err != nil {
				return err
			}
		}

		requesterUpdates := map[string]interface{}{}
		if upd.SubmitterName != "" {
			requesterUpdates["submitter_name"] = upd.SubmitterName
		}
		if upd.GivenName != "" {
			requesterUpdates["given_name"] = upd.GivenName
		}
		if upd.PaternalSurname != "" {
			requesterUpdates["paternal_surname"] = upd.PaternalSurname
		}
		if upd.MaternalSurname != "" {
			requesterUpdates["maternal_surname"] = upd.MaternalSurname
		}
		if upd.Phone != "" {
			requesterUpdates["phone"] = upd.Phone
		}
		if upd.Mobile != "" {
			requesterUpdates["mobile"] = upd.Mobile
		}
		if upd.Email != "" {
			requesterUpdates["email"] = upd.Email
		}
		if len(requesterUpdates) > 0 {
			if err := tx.Model(&models.Requester{}).Where("id = ?", ticket.RequesterID).
				Updates(requesterUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CancelTicket cancels a pending ticket found by folio + CURP. Already
// cancelled or resolved tickets report the uniform not-found error and
// stay untouched.
func CancelTicket(dbConn *gorm.DB, number int, curp string) error {
	ticket, err := FindPendingTicket(dbConn, number, curp)
	if err != nil {
		return err
	}
	return dbConn.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
		Update("status", models.TicketStatusCancelled).Error
}

// AdminCancelTicket cancels a ticket by id; only pending tickets qualify
func AdminCancelTicket(dbConn *gorm.DB, id string) error {
	ticket, err := GetTicketByID(dbConn, id)
	if err != nil {
		return err
	}
	if !ticket.IsCancellable() {
		return ErrInvalidTransition
	}
	return dbConn.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
		Update("status", models.TicketStatusCancelled).Error
}

// SetTicketStatus toggles a ticket between pending and resolved.
// Cancelled is terminal and only reachable through the cancel actions.
func SetTicketStatus(dbConn *gorm.DB, id, status string) error {
	if status != models.TicketStatusPending && status != models.TicketStatusResolved {
		return ErrInvalidTransition
	}
	ticket, err := GetTicketByID(dbConn, id)
	if err != nil {
		return err
	}
	if ticket.Status == models.TicketStatusCancelled {
		return ErrInvalidTransition
	}
	return dbConn.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
		Update("status", status).Error
}

// SearchTickets is the admin listing: optional CURP/name filter plus an
// active/cancelled view, newest appointments first, capped at 50 rows.
func SearchTickets(dbConn *gorm.DB, query, view string) ([]models.Ticket, error) {
	var tickets []models.Ticket

	stmt := dbConn.Preload("Requester").Preload("Office").Preload("Office.Municipality").
		Preload("Subject").Preload("EducationLevel").
		Joins("JOIN requesters ON requesters.id = tickets.requester_id")

	if query != "" {
		like := "%" + query + "%"
		stmt = stmt.Where("requesters.curp LIKE ? OR requesters.given_name LIKE ?", like, like)
	}

	if view == "cancelled" {
		stmt = stmt.Where("tickets.status = ?", models.TicketStatusCancelled)
	} else {
		stmt = stmt.Where("tickets.status <> ?", models.TicketStatusCancelled)
	}

	err := stmt.Order("tickets.scheduled_date desc, tickets.scheduled_time desc").
		Limit(50).
		Find(&tickets).Error
	return tickets, err
}
