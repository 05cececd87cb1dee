package handlers

import (
	"errors"
	"net/http"

	"turno_app_go/db"
	"turno_app_go/services"

	"github.com/labstack/echo/v4"
)

// --- Public catalog feeds ---

// GetMunicipalitiesHandler feeds the public submission form
// GET /api/catalog/municipalities
func GetMunicipalitiesHandler(c echo.Context) error {
	municipalities, err := services.GetMunicipalities(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load municipalities")
	}
	return c.JSON(http.StatusOK, municipalities)
}

// GetSubjectsHandler GET /api/catalog/subjects
func GetSubjectsHandler(c echo.Context) error {
	subjects, err := services.GetSubjects(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load subjects")
	}
	return c.JSON(http.StatusOK, subjects)
}

// GetEducationLevelsHandler GET /api/catalog/education-levels
func GetEducationLevelsHandler(c echo.Context) error {
	levels, err := services.GetEducationLevels(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load education levels")
	}
	return c.JSON(http.StatusOK, levels)
}

// GetOfficesHandler lists offices, optionally filtered to a municipality so
// the public form can chain its selects
// GET /api/offices?municipality_id=
func GetOfficesHandler(c echo.Context) error {
	municipalityID := c.QueryParam("municipality_id")

	var err error
	var offices interface{}
	if municipalityID != "" {
		offices, err = services.GetOfficesByMunicipality(db.DB, municipalityID)
	} else {
		offices, err = services.GetOffices(db.DB)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load offices")
	}
	return c.JSON(http.StatusOK, offices)
}

// --- Admin catalog CRUD ---

type namedCatalogRequest struct {
	Name string `json:"name" form:"name"`
}

// CreateMunicipalityHandler POST /admin/api/municipalities
func CreateMunicipalityHandler(c echo.Context) error {
	var req namedCatalogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	municipality, err := services.CreateMunicipality(db.DB, req.Name)
	if err != nil {
		return catalogWriteError(err, "municipality")
	}
	return c.JSON(http.StatusCreated, municipality)
}

// UpdateMunicipalityHandler PUT /admin/api/municipalities/:id
func UpdateMunicipalityHandler(c echo.Context) error {
	var req namedCatalogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateMunicipality(db.DB, c.Param("id"), req.Name); err != nil {
		return catalogWriteError(err, "municipality")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Municipality updated"})
}

// DeleteMunicipalityHandler DELETE /admin/api/municipalities/:id
func DeleteMunicipalityHandler(c echo.Context) error {
	if err := services.DeleteMunicipality(db.DB, c.Param("id")); err != nil {
		return catalogWriteError(err, "municipality")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Municipality deleted"})
}

// CreateSubjectHandler POST /admin/api/subjects
func CreateSubjectHandler(c echo.Context) error {
	var req struct {
		Description string `json:"description" form:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	subject, err := services.CreateSubject(db.DB, req.Description)
	if err != nil {
		return catalogWriteError(err, "subject")
	}
	return c.JSON(http.StatusCreated, subject)
}

// UpdateSubjectHandler PUT /admin/api/subjects/:id
func UpdateSubjectHandler(c echo.Context) error {
	var req struct {
		Description string `json:"description" form:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateSubject(db.DB, c.Param("id"), req.Description); err != nil {
		return catalogWriteError(err, "subject")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Subject updated"})
}

// DeleteSubjectHandler DELETE /admin/api/subjects/:id
func DeleteSubjectHandler(c echo.Context) error {
	if err := services.DeleteSubject(db.DB, c.Param("id")); err != nil {
		return catalogWriteError(err, "subject")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Subject deleted"})
}

// CreateEducationLevelHandler POST /admin/api/education-levels
func CreateEducationLevelHandler(c echo.Context) error {
	var req namedCatalogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	level, err := services.CreateEducationLevel(db.DB, req.Name)
	if err != nil {
		return catalogWriteError(err, "education level")
	}
	return c.JSON(http.StatusCreated, level)
}

// UpdateEducationLevelHandler PUT /admin/api/education-levels/:id
func UpdateEducationLevelHandler(c echo.Context) error {
	var req namedCatalogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateEducationLevel(db.DB, c.Param("id"), req.Name); err != nil {
		return catalogWriteError(err, "education level")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Education level updated"})
}

// DeleteEducationLevelHandler DELETE /admin/api/education-levels/:id
func DeleteEducationLevelHandler(c echo.Context) error {
	if err := services.DeleteEducationLevel(db.DB, c.Param("id")); err != nil {
		return catalogWriteError(err, "education level")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Education level deleted"})
}

type officeRequest struct {
	Name           string `json:"name" form:"name"`
	MunicipalityID string `json:"municipality_id" form:"municipality_id"`
}

// CreateOfficeHandler POST /admin/api/offices
func CreateOfficeHandler(c echo.Context) error {
	var req officeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	office, err := services.CreateOffice(db.DB, req.Name, req.MunicipalityID)
	if err != nil {
		return catalogWriteError(err, "office")
	}
	return c.JSON(http.StatusCreated, office)
}

// UpdateOfficeHandler PUT /admin/api/offices/:id
func UpdateOfficeHandler(c echo.Context) error {
	var req officeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateOffice(db.DB, c.Param("id"), req.Name, req.MunicipalityID); err != nil {
		return catalogWriteError(err, "office")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Office updated"})
}

// DeleteOfficeHandler DELETE /admin/api/offices/:id
func DeleteOfficeHandler(c echo.Context) error {
	if err := services.DeleteOffice(db.DB, c.Param("id")); err != nil {
		return catalogWriteError(err, "office")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Office deleted"})
}

// GetOfficeHoursHandler GET /admin/api/office-hours
func GetOfficeHoursHandler(c echo.Context) error {
	hours, err := services.GetOfficeHours(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load office hours")
	}
	return c.JSON(http.StatusOK, hours)
}

type officeHoursRequest struct {
	OfficeID      string   `json:"office_id" form:"office_id"`
	Weekday       string   `json:"weekday" form:"weekday"`
	Weekdays      []string `json:"weekdays" form:"weekdays"`
	OpensAt       string   `json:"opens_at" form:"opens_at"`
	ClosesAt      string   `json:"closes_at" form:"closes_at"`
	MaxTicketsDay int      `json:"max_tickets_day" form:"max_tickets_day"`
}

// CreateOfficeHoursHandler registers a weekly window for one or several
// weekdays of an office in a single batch
// POST /admin/api/office-hours
func CreateOfficeHoursHandler(c echo.Context) error {
	var req officeHoursRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	weekdays := req.Weekdays
	if len(weekdays) == 0 && req.Weekday != "" {
		weekdays = []string{req.Weekday}
	}

	err := services.CreateOfficeHours(db.DB, req.OfficeID, weekdays, req.OpensAt, req.ClosesAt, req.MaxTicketsDay)
	if err != nil {
		return catalogWriteError(err, "office hours")
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Office hours created"})
}

// UpdateOfficeHoursHandler PUT /admin/api/office-hours/:id
func UpdateOfficeHoursHandler(c echo.Context) error {
	var req officeHoursRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	err := services.UpdateOfficeHours(db.DB, c.Param("id"), req.OfficeID, req.Weekday, req.OpensAt, req.ClosesAt, req.MaxTicketsDay)
	if err != nil {
		return catalogWriteError(err, "office hours")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Office hours updated"})
}

// DeleteOfficeHoursHandler DELETE /admin/api/office-hours/:id
func DeleteOfficeHoursHandler(c echo.Context) error {
	if err := services.DeleteOfficeHours(db.DB, c.Param("id")); err != nil {
		return catalogWriteError(err, "office hours")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Office hours deleted"})
}

// catalogWriteError maps the catalog sentinels onto HTTP responses shared by
// every admin catalog endpoint
func catalogWriteError(err error, entity string) error {
	switch {
	case errors.Is(err, services.ErrCatalogNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "The "+entity+" does not exist")
	case errors.Is(err, services.ErrCatalogInUse):
		return echo.NewHTTPError(http.StatusConflict, "The "+entity+" is referenced by existing records")
	case errors.Is(err, services.ErrDuplicateEntry):
		return echo.NewHTTPError(http.StatusConflict, "A "+entity+" with that value already exists")
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
