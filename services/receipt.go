package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"

	"turno_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns default options for ticket receipts
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "letter",
		MarginTop:       54,
		MarginBottom:    54,
		MarginLeft:      54,
		MarginRight:     54,
	}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; }
  h1 { font-size: 20px; border-bottom: 2px solid #1a1a1a; padding-bottom: 8px; }
  .folio { font-size: 42px; font-weight: bold; text-align: center; margin: 18px 0; }
  .slot { font-size: 16px; text-align: center; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; font-size: 12px; }
  td { padding: 6px 8px; border-bottom: 1px solid #ddd; }
  td.label { width: 35%; font-weight: bold; color: #555; }
  .footer { margin-top: 28px; font-size: 10px; color: #777; }
</style>
</head>
<body>
  <h1>Comprobante de Turno</h1>
  <div class="folio">Turno #{{.Ticket.Number}}</div>
  <div class="slot">{{.Date}} &mdash; {{.Ticket.ScheduledTime}} hrs</div>
  <table>
    <tr><td class="label">Solicitante</td><td>{{.Ticket.Requester.FullName}}</td></tr>
    <tr><td class="label">CURP</td><td>{{.Ticket.Requester.CURP}}</td></tr>
    <tr><td class="label">Tramitante</td><td>{{.Ticket.Requester.SubmitterName}}</td></tr>
    <tr><td class="label">Celular</td><td>{{.Ticket.Requester.Mobile}}</td></tr>
    {{if .Ticket.Requester.Email}}<tr><td class="label">Correo</td><td>{{.Ticket.Requester.Email}}</td></tr>{{end}}
    <tr><td class="label">Municipio</td><td>{{.Ticket.Office.Municipality.Name}}</td></tr>
    <tr><td class="label">Oficina</td><td>{{.Ticket.Office.Name}}</td></tr>
    <tr><td class="label">Asunto</td><td>{{.Ticket.Subject.Description}}</td></tr>
    <tr><td class="label">Nivel educativo</td><td>{{.Ticket.EducationLevel.Name}}</td></tr>
    <tr><td class="label">Estado</td><td>{{.Ticket.Status}}</td></tr>
  </table>
  <div class="footer">Presente este comprobante el d&iacute;a de su cita. C&oacute;digo: {{.Ticket.LookupCode}}</div>
</body>
</html>`))

// RenderReceiptHTML builds the printable receipt markup for a ticket. The
// ticket must be loaded with its display relations.
func RenderReceiptHTML(ticket *models.Ticket) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Ticket *models.Ticket
		Date   string
	}{
		Ticket: ticket,
		Date:   ticket.ScheduledDate.Format("02/01/2006"),
	}
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}

// GenerateReceiptPDF renders a ticket receipt to PDF bytes
func GenerateReceiptPDF(ticket *models.Ticket) ([]byte, error) {
	html, err := RenderReceiptHTML(ticket)
	if err != nil {
		return nil, err
	}
	return GeneratePDF(html, DefaultPDFOptions())
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	// Configure Chrome executable path from environment or default
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	// Create a new browser context
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Set up page dimensions based on options
	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "A4":
		paperWidth = 8.27
		paperHeight = 11.69
	default: // letter
		paperWidth = 8.5
		paperHeight = 11.0
	}

	// Swap dimensions for landscape
	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	// Run the Chrome actions
	err := chromedp.Run(ctx,
		// Navigate to a blank page first
		chromedp.Navigate("about:blank"),
		// Set the HTML content
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		// Generate PDF
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
