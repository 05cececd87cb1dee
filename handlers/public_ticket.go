package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"turno_app_go/db"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every HTML construct from free-text form fields
var textPolicy = bluemonday.StrictPolicy()

// CreateTicketHandler handles the public ticket submission
// POST /api/tickets
func CreateTicketHandler(c echo.Context) error {
	var input services.TicketInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if problems := input.Validate(); len(problems) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid submission",
			"errors":  problems,
		})
	}

	input.Notes = textPolicy.Sanitize(input.Notes)

	ticket, err := services.IssueTicket(db.DB, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOfficeNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid office")
		case errors.Is(err, services.ErrNoAvailability):
			return echo.NewHTTPError(http.StatusConflict, "No appointment slots available for this office")
		case errors.Is(err, services.ErrSlotTaken):
			return echo.NewHTTPError(http.StatusConflict, "Could not book the appointment, please try again")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not book the appointment, please try again")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Ticket created successfully",
		"ticket":  ticket,
	})
}

// LookupTicketHandler returns the full ticket snapshot for a folio + CURP pair
// GET /api/tickets/lookup?number=&curp=
func LookupTicketHandler(c echo.Context) error {
	number, curp, err := lookupParams(c.QueryParam("number"), c.QueryParam("curp"))
	if err != nil {
		return err
	}

	ticket, err := services.FindTicket(db.DB, number, curp)
	if err != nil {
		return ticketLookupError(err)
	}

	return c.JSON(http.StatusOK, ticket)
}

// EditTicketHandler applies a public edit to a pending ticket. The slot and
// folio are immutable; only trámite details and contact fields change.
// PUT /api/tickets
func EditTicketHandler(c echo.Context) error {
	var req struct {
		Number string `json:"number" form:"number"`
		CURP   string `json:"curp" form:"curp"`
		services.TicketUpdate
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	number, curp, err := lookupParams(req.Number, req.CURP)
	if err != nil {
		return err
	}

	ticket, err := services.EditTicket(db.DB, number, curp, &req.TicketUpdate)
	if err != nil {
		return ticketLookupError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Ticket updated successfully",
		"ticket":  ticket,
	})
}

// CancelTicketHandler cancels a pending ticket from the public flow
// POST /api/tickets/cancel
func CancelTicketHandler(c echo.Context) error {
	var req struct {
		Number string `json:"number" form:"number"`
		CURP   string `json:"curp" form:"curp"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	number, curp, err := lookupParams(req.Number, req.CURP)
	if err != nil {
		return err
	}

	if err := services.CancelTicket(db.DB, number, curp); err != nil {
		return ticketLookupError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Ticket #%d cancelled", number),
	})
}

// ReceiptPDFHandler streams the printable PDF receipt for a ticket
// GET /api/tickets/:id/receipt.pdf?curp=
func ReceiptPDFHandler(c echo.Context) error {
	id := c.Param("id")
	curp := c.QueryParam("curp")
	if curp == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "curp is required")
	}

	ticket, err := services.GetTicketByID(db.DB, id)
	if err != nil || ticket.LookupCode != curp {
		return echo.NewHTTPError(http.StatusNotFound, "Ticket not found or not eligible")
	}

	pdfBytes, err := services.GenerateReceiptPDF(ticket)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate receipt")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("inline; filename=turno_%d_%s.pdf", ticket.Number, curp))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

// lookupParams parses and validates the (folio, CURP) pair every public
// lookup flow requires
func lookupParams(numberStr, curp string) (int, string, error) {
	if numberStr == "" || curp == "" {
		return 0, "", echo.NewHTTPError(http.StatusBadRequest, "number and curp are required")
	}
	number, err := strconv.Atoi(numberStr)
	if err != nil {
		return 0, "", echo.NewHTTPError(http.StatusBadRequest, "Invalid ticket number")
	}
	return number, curp, nil
}

// ticketLookupError keeps the public not-found response uniform so callers
// cannot tell which field was wrong
func ticketLookupError(err error) error {
	if errors.Is(err, services.ErrTicketNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Ticket not found or not eligible")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong, please try again")
}
