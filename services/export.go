package services

import (
	"bytes"
	"fmt"

	"gorm.io/gorm"

	"github.com/xuri/excelize/v2"
)

// ExportTickets builds an Excel workbook from the admin ticket search.
// It reuses SearchTickets, so the export always matches what the listing
// shows (same filter, same view, same 50-row cap).
func ExportTickets(dbConn *gorm.DB, query, view string) (*bytes.Buffer, error) {
	tickets, err := SearchTickets(dbConn, query, view)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Turnos"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Folio", "Fecha", "Hora", "Estado",
		"CURP", "Solicitante", "Tramitante", "Celular",
		"Municipio", "Oficina", "Asunto", "Nivel educativo",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, headerStyle)

	for i, ticket := range tickets {
		row := i + 2
		values := []interface{}{
			ticket.Number,
			ticket.ScheduledDate.Format("2006-01-02"),
			ticket.ScheduledTime,
			ticket.Status,
			ticket.Requester.CURP,
			ticket.Requester.FullName(),
			ticket.Requester.SubmitterName,
			ticket.Requester.Mobile,
			ticket.Office.Municipality.Name,
			ticket.Office.Name,
			ticket.Subject.Description,
			ticket.EducationLevel.Name,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write export workbook: %w", err)
	}
	return buf, nil
}
