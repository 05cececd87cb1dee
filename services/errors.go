package services

import "errors"

var (
	// ErrNoAvailability means the slot finder exhausted its search horizon
	// without finding a free slot for the office.
	ErrNoAvailability = errors.New("no appointment slots available")

	// ErrSlotTaken is the retryable outcome of losing a booking race: the
	// slot the finder observed as free was taken by the time the insert
	// hit the unique constraint.
	ErrSlotTaken = errors.New("slot already taken, try again")

	// ErrTicketNotFound covers every failed public lookup. It deliberately
	// does not distinguish a wrong folio, a wrong CURP, or an ineligible
	// status.
	ErrTicketNotFound = errors.New("ticket not found or not eligible")

	ErrInvalidTransition = errors.New("invalid ticket status transition")
	ErrOfficeNotFound    = errors.New("office not found")
	ErrCatalogNotFound   = errors.New("catalog entry not found")
	ErrCatalogInUse      = errors.New("catalog entry is in use")
	ErrDuplicateEntry    = errors.New("entry already exists")
)
