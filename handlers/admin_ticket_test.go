package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"turno_app_go/models"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestListTicketsHandler(t *testing.T) {
	testDB := setupTestDB(t)
	office, subject, level := seedBookableOffice(t, testDB)
	pending := issueTestTicket(t, office, subject, level, handlerTestCURP)
	cancelled := issueTestTicket(t, office, subject, level, "GAMA850505MDFRRS02")
	assert.NoError(t, services.AdminCancelTicket(testDB, cancelled.ID))

	t.Run("active view", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/admin/api/tickets", nil)
		assert.NoError(t, ListTicketsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Tickets []models.Ticket `json:"tickets"`
			Count   int             `json:"count"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, pending.ID, resp.Tickets[0].ID)
	})

	t.Run("cancelled view", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/admin/api/tickets?view=cancelled", nil)
		assert.NoError(t, ListTicketsHandler(c))

		var resp struct {
			Tickets []models.Ticket `json:"tickets"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Tickets, 1)
		assert.Equal(t, cancelled.ID, resp.Tickets[0].ID)
	})

	t.Run("query filter", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/admin/api/tickets?q="+handlerTestCURP[:8], nil)
		assert.NoError(t, ListTicketsHandler(c))

		var resp struct {
			Count int `json:"count"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})
}

func TestUpdateTicketStatusHandler(t *testing.T) {
	testDB := setupTestDB(t)
	office, subject, level := seedBookableOffice(t, testDB)
	issued := issueTestTicket(t, office, subject, level, handlerTestCURP)

	t.Run("resolve", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/admin/api/tickets/x/status",
			strings.NewReader(`{"status": "resolved"}`))
		c.SetParamNames("id")
		c.SetParamValues(issued.ID)

		assert.NoError(t, UpdateTicketStatusHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		reloaded, err := services.GetTicketByID(testDB, issued.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.TicketStatusResolved, reloaded.Status)
	})

	t.Run("cancelled is not settable", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPut, "/admin/api/tickets/x/status",
			strings.NewReader(`{"status": "cancelled"}`))
		c.SetParamNames("id")
		c.SetParamValues(issued.ID)

		err := UpdateTicketStatusHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPut, "/admin/api/tickets/x/status",
			strings.NewReader(`{"status": "resolved"}`))
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := UpdateTicketStatusHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestAdminCancelTicketHandler(t *testing.T) {
	testDB := setupTestDB(t)
	office, subject, level := seedBookableOffice(t, testDB)
	issued := issueTestTicket(t, office, subject, level, handlerTestCURP)

	_, c, rec := setupEcho(http.MethodPost, "/admin/api/tickets/x/cancel", nil)
	c.SetParamNames("id")
	c.SetParamValues(issued.ID)

	assert.NoError(t, AdminCancelTicketHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Cancelling again conflicts.
	_, c, _ = setupEcho(http.MethodPost, "/admin/api/tickets/x/cancel", nil)
	c.SetParamNames("id")
	c.SetParamValues(issued.ID)

	err := AdminCancelTicketHandler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestAdminEditTicketHandler(t *testing.T) {
	testDB := setupTestDB(t)
	office, subject, level := seedBookableOffice(t, testDB)
	issued := issueTestTicket(t, office, subject, level, handlerTestCURP)

	_, c, rec := setupEcho(http.MethodPut, "/admin/api/tickets/x",
		strings.NewReader(`{"mobile": "5550001111"}`))
	c.SetParamNames("id")
	c.SetParamValues(issued.ID)

	assert.NoError(t, AdminEditTicketHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	reloaded, err := services.GetTicketByID(testDB, issued.ID)
	assert.NoError(t, err)
	assert.Equal(t, "5550001111", reloaded.Requester.Mobile)
	assert.Equal(t, issued.Number, reloaded.Number)
	assert.Equal(t, issued.ScheduledTime, reloaded.ScheduledTime)
}

func TestExportTicketsHandler(t *testing.T) {
	testDB := setupTestDB(t)
	office, subject, level := seedBookableOffice(t, testDB)
	issueTestTicket(t, office, subject, level, handlerTestCURP)

	_, c, rec := setupEcho(http.MethodGet, "/admin/api/tickets/export", nil)

	assert.NoError(t, ExportTicketsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "turnos_")
	assert.NotZero(t, rec.Body.Len())
}

func TestDashboardStatsHandler(t *testing.T) {
	testDB := setupTestDB(t)
	office, subject, level := seedBookableOffice(t, testDB)
	issueTestTicket(t, office, subject, level, handlerTestCURP)

	_, c, rec := setupEcho(http.MethodGet, "/admin/api/dashboard/stats", nil)

	assert.NoError(t, DashboardStatsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats services.DashboardStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Len(t, stats.Totals, 1)
	assert.EqualValues(t, 1, stats.Totals[0].Total)
	assert.Contains(t, stats.ByMunicipality, "Toluca")
}
