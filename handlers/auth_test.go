package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"turno_app_go/middleware"
	"turno_app_go/models"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	t.Run("valid credentials set a session cookie", func(t *testing.T) {
		testDB := setupTestDB(t)
		admin := seedTestAdmin(t, testDB, models.AdminRoleAdmin)

		body := `{"username": "` + admin.Username + `", "password": "test-password"}`
		_, c, rec := setupEcho(http.MethodPost, "/admin/api/login", strings.NewReader(body))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		var sessionCookie *http.Cookie
		for _, cookie := range cookies {
			if cookie.Name == middleware.SessionCookieName {
				sessionCookie = cookie
			}
		}
		assert.NotNil(t, sessionCookie)
		assert.NotEmpty(t, sessionCookie.Value)

		// The cookie maps to a live session.
		session, err := services.ValidateSession(testDB, sessionCookie.Value)
		assert.NoError(t, err)
		assert.Equal(t, admin.ID, session.AdminID)
	})

	t.Run("wrong password", func(t *testing.T) {
		testDB := setupTestDB(t)
		admin := seedTestAdmin(t, testDB, models.AdminRoleAdmin)

		body := `{"username": "` + admin.Username + `", "password": "wrong"}`
		_, c, _ := setupEcho(http.MethodPost, "/admin/api/login", strings.NewReader(body))

		err := LoginHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		setupTestDB(t)

		_, c, _ := setupEcho(http.MethodPost, "/admin/api/login", strings.NewReader(`{}`))

		err := LoginHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	testDB := setupTestDB(t)
	admin := seedTestAdmin(t, testDB, models.AdminRoleAdmin)
	session, err := services.CreateSession(testDB, admin.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/admin/api/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

	assert.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err = services.ValidateSession(testDB, session.Token)
	assert.Error(t, err)
}

func TestMeHandler(t *testing.T) {
	testDB := setupTestDB(t)
	admin := seedTestAdmin(t, testDB, models.AdminRoleStaff)

	_, c, rec := setupEcho(http.MethodGet, "/admin/api/me", nil)
	c.Set(middleware.ContextKeyAdmin, admin)

	assert.NoError(t, MeHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, admin.Username, resp["username"])
	assert.Equal(t, models.AdminRoleStaff, resp["role"])
}

func TestRequireAuthMiddleware(t *testing.T) {
	testDB := setupTestDB(t)
	admin := seedTestAdmin(t, testDB, models.AdminRoleAdmin)
	session, err := services.CreateSession(testDB, admin.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("valid session passes through", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/admin/api/tickets", nil)
		c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

		assert.NoError(t, middleware.RequireAuth()(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		authed, ok := c.Get(middleware.ContextKeyAdmin).(*models.Admin)
		assert.True(t, ok)
		assert.Equal(t, admin.ID, authed.ID)
	})

	t.Run("missing cookie is a 401", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/admin/api/tickets", nil)

		err := middleware.RequireAuth()(next)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("role gate rejects staff", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/admin/api/municipalities", nil)
		staff := seedTestAdmin(t, testDB, models.AdminRoleStaff)
		c.Set(middleware.ContextKeyAdmin, staff)

		err := middleware.RequireRole(models.AdminRoleAdmin)(next)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})
}
