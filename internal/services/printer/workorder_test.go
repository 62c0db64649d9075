package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/sunvolt/fieldopsgo/internal/models"
)

func TestGenerateWorkOrderPDF(t *testing.T) {
	rec := &models.FieldRecord{
		ID:          "9f1c7a44-1111-2222-3333-444455556666",
		Kind:        models.KindCheckOut,
		Project:     "Hargrove Residence",
		Responsible: "R. Vega",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusOpen,
		ComponentsUsed: []models.ComponentUsage{
			{ItemID: "panel-1", ItemName: "Solar Panel 450W", Quantity: 18},
			{ItemID: "inv-1", ItemName: "Inverter 5kW", Quantity: 1},
		},
	}

	pdf, err := GenerateWorkOrderPDF(rec)
	if err != nil {
		t.Fatalf("Failed to generate PDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Expected non-empty PDF output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("Output does not look like a PDF (starts with %q)", pdf[:4])
	}

	// Empty component list still renders.
	rec.ComponentsUsed = nil
	if _, err := GenerateWorkOrderPDF(rec); err != nil {
		t.Fatalf("Failed to generate PDF without components: %v", err)
	}
}
