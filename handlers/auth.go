package handlers

import (
	"net/http"
	"time"

	"turno_app_go/db"
	"turno_app_go/middleware"
	"turno_app_go/models"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
)

// LoginHandler authenticates an admin and opens a session cookie
// POST /admin/api/login
func LoginHandler(c echo.Context) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	admin, err := services.Authenticate(db.DB, req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	session, err := services.CreateSession(db.DB, admin.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create session")
	}

	middleware.SetSessionCookie(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logged in",
		"admin": map[string]string{
			"id":       admin.ID,
			"username": admin.Username,
			"role":     admin.Role,
		},
	})
}

// LogoutHandler destroys the current session
// POST /admin/api/logout
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		_ = services.DeleteSession(db.DB, cookie.Value)
	}
	middleware.ClearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// MeHandler returns the authenticated admin for the session cookie
// GET /admin/api/me
func MeHandler(c echo.Context) error {
	admin, ok := c.Get(middleware.ContextKeyAdmin).(*models.Admin)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":       admin.ID,
		"username": admin.Username,
		"role":     admin.Role,
	})
}
