package main

import (
	"log"
	"time"

	"turno_app_go/config"
	"turno_app_go/db"
	"turno_app_go/handlers"
	"turno_app_go/middleware"
	"turno_app_go/models"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public catalog feeds for the submission form
	e.GET("/api/catalog/municipalities", handlers.GetMunicipalitiesHandler)
	e.GET("/api/catalog/subjects", handlers.GetSubjectsHandler)
	e.GET("/api/catalog/education-levels", handlers.GetEducationLevelsHandler)
	e.GET("/api/offices", handlers.GetOfficesHandler)

	// Public ticket flow
	e.POST("/api/tickets", handlers.CreateTicketHandler, middleware.TicketSubmitRateLimiter.Middleware())
	e.GET("/api/tickets/lookup", handlers.LookupTicketHandler)
	e.PUT("/api/tickets", handlers.EditTicketHandler)
	e.POST("/api/tickets/cancel", handlers.CancelTicketHandler)
	e.GET("/api/tickets/:id/receipt.pdf", handlers.ReceiptPDFHandler)

	// Admin authentication
	e.POST("/admin/api/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected admin routes
	admin := e.Group("/admin/api")
	admin.Use(middleware.RequireAuth())
	{
		admin.POST("/logout", handlers.LogoutHandler)
		admin.GET("/me", handlers.MeHandler)

		// Ticket management
		admin.GET("/tickets", handlers.ListTicketsHandler)
		admin.GET("/tickets/export", handlers.ExportTicketsHandler)
		admin.GET("/tickets/:id", handlers.GetTicketHandler)
		admin.PUT("/tickets/:id", handlers.AdminEditTicketHandler)
		admin.PUT("/tickets/:id/status", handlers.UpdateTicketStatusHandler)
		admin.POST("/tickets/:id/cancel", handlers.AdminCancelTicketHandler)

		// Dashboard
		admin.GET("/dashboard/stats", handlers.DashboardStatsHandler)

		// Catalog reads
		admin.GET("/office-hours", handlers.GetOfficeHoursHandler)

		// Catalog writes (admin role only, staff stays read-only)
		catalogRoutes := admin.Group("")
		catalogRoutes.Use(middleware.RequireRole("admin"))
		{
			catalogRoutes.POST("/municipalities", handlers.CreateMunicipalityHandler)
			catalogRoutes.PUT("/municipalities/:id", handlers.UpdateMunicipalityHandler)
			catalogRoutes.DELETE("/municipalities/:id", handlers.DeleteMunicipalityHandler)

			catalogRoutes.POST("/subjects", handlers.CreateSubjectHandler)
			catalogRoutes.PUT("/subjects/:id", handlers.UpdateSubjectHandler)
			catalogRoutes.DELETE("/subjects/:id", handlers.DeleteSubjectHandler)

			catalogRoutes.POST("/education-levels", handlers.CreateEducationLevelHandler)
			catalogRoutes.PUT("/education-levels/:id", handlers.UpdateEducationLevelHandler)
			catalogRoutes.DELETE("/education-levels/:id", handlers.DeleteEducationLevelHandler)

			catalogRoutes.POST("/offices", handlers.CreateOfficeHandler)
			catalogRoutes.PUT("/offices/:id", handlers.UpdateOfficeHandler)
			catalogRoutes.DELETE("/offices/:id", handlers.DeleteOfficeHandler)

			catalogRoutes.POST("/office-hours", handlers.CreateOfficeHoursHandler)
			catalogRoutes.PUT("/office-hours/:id", handlers.UpdateOfficeHoursHandler)
			catalogRoutes.DELETE("/office-hours/:id", handlers.DeleteOfficeHoursHandler)
		}
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
