package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"turno_app_go/db"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListTicketsHandler is the admin search over tickets. The view parameter
// switches between the active list and the cancelled archive.
// GET /admin/api/tickets?q=&view=
func ListTicketsHandler(c echo.Context) error {
	query := c.QueryParam("q")
	view := c.QueryParam("view")

	tickets, err := services.SearchTickets(db.DB, query, view)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load tickets")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// GetTicketHandler GET /admin/api/tickets/:id
func GetTicketHandler(c echo.Context) error {
	ticket, err := services.GetTicketByID(db.DB, c.Param("id"))
	if err != nil {
		return adminTicketError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// UpdateTicketStatusHandler moves a ticket between pending and resolved
// PUT /admin/api/tickets/:id/status
func UpdateTicketStatusHandler(c echo.Context) error {
	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.SetTicketStatus(db.DB, c.Param("id"), req.Status); err != nil {
		return adminTicketError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Status updated"})
}

// AdminCancelTicketHandler cancels a pending ticket from the back office
// POST /admin/api/tickets/:id/cancel
func AdminCancelTicketHandler(c echo.Context) error {
	if err := services.AdminCancelTicket(db.DB, c.Param("id")); err != nil {
		return adminTicketError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Ticket cancelled"})
}

// AdminEditTicketHandler edits trámite and contact details on any ticket.
// The slot and folio stay untouched regardless of status.
// PUT /admin/api/tickets/:id
func AdminEditTicketHandler(c echo.Context) error {
	var upd services.TicketUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	ticket, err := services.AdminEditTicket(db.DB, c.Param("id"), &upd)
	if err != nil {
		return adminTicketError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Ticket updated",
		"ticket":  ticket,
	})
}

// ExportTicketsHandler streams the current search as an Excel workbook
// GET /admin/api/tickets/export?q=&view=
func ExportTicketsHandler(c echo.Context) error {
	buf, err := services.ExportTickets(db.DB, c.QueryParam("q"), c.QueryParam("view"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export tickets")
	}

	filename := fmt.Sprintf("turnos_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// DashboardStatsHandler GET /admin/api/dashboard/stats
func DashboardStatsHandler(c echo.Context) error {
	stats, err := services.GetDashboardStats(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load statistics")
	}
	return c.JSON(http.StatusOK, stats)
}

func adminTicketError(err error) error {
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Ticket not found")
	case errors.Is(err, services.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, "The ticket status does not allow that operation")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong, please try again")
}
