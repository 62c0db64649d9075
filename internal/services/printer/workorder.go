// Package printer renders printable work-order sheets for field records:
// one A4 page with the site details, the component list and a QR code
// carrying the record id for scanning on site.
package printer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/sunvolt/fieldopsgo/internal/models"
)

var kindTitles = map[models.RecordKind]string{
	models.KindCheckIn:     "Check-In",
	models.KindCheckOut:    "Check-Out / Installation",
	models.KindMaintenance: "Maintenance Visit",
}

// GenerateWorkOrderPDF creates the work-order sheet for one field record.
func GenerateWorkOrderPDF(rec *models.FieldRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	title := kindTitles[rec.Kind]
	if title == "" {
		title = string(rec.Kind)
	}
	pdf.CellFormat(130, 10, fmt.Sprintf("Work Order - %s", title), "", 0, "L", false, 0, "")

	// QR code with the record id, top right
	qrPng, err := qrcode.Encode(rec.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("qr_record", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr_record", 165, 12, 30, 30, false, imgOptions, 0, "")

	pdf.Ln(14)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Record: %s", rec.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", strings.ToUpper(string(rec.Status))), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Site", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Project: %s", rec.Project), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Responsible: %s", rec.Responsible), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Date: %s", rec.Date.Format("2006-01-02")), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Component table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Materials", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(110, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Used", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	if len(rec.ComponentsUsed) == 0 {
		pdf.CellFormat(180, 7, "no materials attached", "1", 1, "C", false, 0, "")
	}
	for _, c := range rec.ComponentsUsed {
		name := c.ItemName
		if name == "" {
			name = c.ItemID
		}
		pdf.CellFormat(110, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", c.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, "", "1", 1, "C", false, 0, "") // tick box column
	}

	// Signature line
	pdf.Ln(20)
	pdf.CellFormat(80, 5, "Technician signature:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(20, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 5, "Client signature:", "T", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
