package services

import (
	"turno_app_go/models"

	"gorm.io/gorm"
)

// StatusCount is one row of the status totals
type StatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// MunicipalityBreakdown groups ticket counts by status for one municipality
type MunicipalityBreakdown struct {
	Pending   int64 `json:"pending"`
	Resolved  int64 `json:"resolved"`
	Cancelled int64 `json:"cancelled"`
}

// DashboardStats feeds the admin dashboard
type DashboardStats struct {
	Totals         []StatusCount                    `json:"totals"`
	ByMunicipality map[string]MunicipalityBreakdown `json:"by_municipality"`
}

// GetDashboardStats aggregates ticket totals by status and the
// per-municipality breakdown
func GetDashboardStats(dbConn *gorm.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		ByMunicipality: make(map[string]MunicipalityBreakdown),
	}

	err := dbConn.Model(&models.Ticket{}).
		Select("status, count(*) as total").
		Group("status").
		Order("status asc").
		Scan(&stats.Totals).Error
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Name   string
		Status string
		Total  int64
	}
	err = dbConn.Model(&models.Ticket{}).
		Select("municipalities.name as name, tickets.status as status, count(*) as total").
		Joins("JOIN municipalities ON municipalities.id = tickets.municipality_id").
		Group("municipalities.name, tickets.status").
		Order("municipalities.name asc, tickets.status asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		breakdown := stats.ByMunicipality[row.Name]
		switch row.Status {
		case models.TicketStatusPending:
			breakdown.Pending = row.Total
		case models.TicketStatusResolved:
			breakdown.Resolved = row.Total
		case models.TicketStatusCancelled:
			breakdown.Cancelled = row.Total
		}
		stats.ByMunicipality[row.Name] = breakdown
	}

	return stats, nil
}
