package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/store"
)

func seedItem(m *memStore, id, name string, qty, reserved, min float64) {
	m.items[id] = models.StockItem{
		ID:               id,
		Name:             name,
		Unit:             "pcs",
		Quantity:         qty,
		ReservedQuantity: reserved,
		MinQuantity:      min,
	}
}

func seedCheckIn(m *memStore, id, project string, components ...models.ComponentUsage) {
	m.records[id] = models.FieldRecord{
		ID:             id,
		OwnerID:        "tech-1",
		Kind:           models.KindCheckIn,
		Project:        project,
		Responsible:    "R. Vega",
		Date:           time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Status:         models.StatusOpen,
		ComponentsUsed: components,
	}
}

func TestConfirmSaleReservesAndSpawnsCheckOut(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 50, 5, 10)
	seedItem(m, "inv-1", "Inverter 5kW", 8, 0, 2)
	seedCheckIn(m, "ci-1", "Hargrove Residence",
		models.ComponentUsage{ItemID: "panel-1", ItemName: "Solar Panel 450W", Quantity: 20},
		models.ComponentUsage{ItemID: "inv-1", ItemName: "Inverter 5kW", Quantity: 1},
	)

	engine := NewEngine(m)
	checkOut, err := engine.ConfirmSale(ctx, "ci-1")
	if err != nil {
		t.Fatalf("ConfirmSale failed: %v", err)
	}

	// Reservation invariant: reserved grows by exactly the component
	// quantity; on-hand stays untouched.
	panel := m.items["panel-1"]
	if panel.ReservedQuantity != 25 {
		t.Errorf("panel reserved: got %.1f, want 25", panel.ReservedQuantity)
	}
	if panel.Quantity != 50 {
		t.Errorf("panel quantity must be untouched: got %.1f, want 50", panel.Quantity)
	}
	inverter := m.items["inv-1"]
	if inverter.ReservedQuantity != 1 {
		t.Errorf("inverter reserved: got %.1f, want 1", inverter.ReservedQuantity)
	}

	// The spawned CheckOut carries an editable copy of the components and
	// links back to the CheckIn.
	if checkOut.Kind != models.KindCheckOut || checkOut.Status != models.StatusOpen {
		t.Errorf("spawned record: got kind=%s status=%s, want check_out/open", checkOut.Kind, checkOut.Status)
	}
	if checkOut.LinkedRecordID == nil || *checkOut.LinkedRecordID != "ci-1" {
		t.Error("spawned check-out must link back to the check-in")
	}
	if len(checkOut.ComponentsUsed) != 2 {
		t.Fatalf("spawned check-out components: got %d, want 2", len(checkOut.ComponentsUsed))
	}
	checkOut.ComponentsUsed[0].Quantity = 99
	if ci := m.records["ci-1"]; ci.ComponentsUsed[0].Quantity != 20 {
		t.Error("check-out components must be a copy, not share backing array with the check-in")
	}

	if m.records["ci-1"].Status != models.StatusConfirmed {
		t.Errorf("check-in status: got %s, want confirmed", m.records["ci-1"].Status)
	}
	if len(m.movements) != 0 {
		t.Error("reservation must never write stock movements")
	}
}

func TestConfirmSaleValidation(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 50, 0, 10)
	seedCheckIn(m, "ci-empty", "Empty Site") // no components

	m.records["ci-confirmed"] = models.FieldRecord{
		ID: "ci-confirmed", Kind: models.KindCheckIn, Status: models.StatusConfirmed,
		ComponentsUsed: []models.ComponentUsage{{ItemID: "panel-1", Quantity: 1}},
	}
	m.records["mnt-1"] = models.FieldRecord{
		ID: "mnt-1", Kind: models.KindMaintenance, Status: models.StatusOpen,
		ComponentsUsed: []models.ComponentUsage{{ItemID: "panel-1", Quantity: 1}},
	}

	engine := NewEngine(m)

	if _, err := engine.ConfirmSale(ctx, "ci-empty"); !errors.Is(err, ErrNoComponents) {
		t.Errorf("empty components: got %v, want ErrNoComponents", err)
	}
	if _, err := engine.ConfirmSale(ctx, "ci-confirmed"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("already confirmed: got %v, want ErrNotOpen", err)
	}
	if _, err := engine.ConfirmSale(ctx, "mnt-1"); !errors.Is(err, ErrWrongKind) {
		t.Errorf("maintenance record: got %v, want ErrWrongKind", err)
	}
	if _, err := engine.ConfirmSale(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing record: got %v, want ErrNotFound", err)
	}

	// Validation failures must not have touched the ledger.
	if got := m.items["panel-1"].ReservedQuantity; got != 0 {
		t.Errorf("reserved after rejected confirmations: got %.1f, want 0", got)
	}
}

func TestMarkLostNoCascade(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 50, 5, 10)
	seedCheckIn(m, "ci-1", "Lost Site",
		models.ComponentUsage{ItemID: "panel-1", Quantity: 20})

	engine := NewEngine(m)
	if err := engine.MarkLost(ctx, "ci-1"); err != nil {
		t.Fatalf("MarkLost failed: %v", err)
	}

	if m.records["ci-1"].Status != models.StatusLost {
		t.Errorf("status: got %s, want lost", m.records["ci-1"].Status)
	}
	if len(m.records) != 1 {
		t.Error("marking lost must never spawn a check-out")
	}
	if item := m.items["panel-1"]; item.Quantity != 50 || item.ReservedQuantity != 5 {
		t.Error("marking lost must never touch stock")
	}

	// Lost is terminal.
	if err := engine.MarkLost(ctx, "ci-1"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("second MarkLost: got %v, want ErrNotOpen", err)
	}
}

// TestFinalizeCheckOutEndToEnd walks the full chain:
// reserve 20 panels at confirmation, consume 18 at finalization.
func TestFinalizeCheckOutEndToEnd(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 100, 0, 10)
	seedCheckIn(m, "ci-1", "Hargrove Residence",
		models.ComponentUsage{ItemID: "panel-1", ItemName: "Solar Panel 450W", Quantity: 20})
	m.quotes["q-1"] = models.SalesQuote{ID: "q-1", ClientName: "hargrove residence", Status: models.QuoteStatusOpen}

	engine := NewEngine(m)
	checkOut, err := engine.ConfirmSale(ctx, "ci-1")
	if err != nil {
		t.Fatalf("ConfirmSale failed: %v", err)
	}
	if got := m.items["panel-1"].ReservedQuantity; got != 20 {
		t.Fatalf("reserved after confirm: got %.1f, want 20", got)
	}

	// Technician used 18 panels instead of the reserved 20.
	checkOut.ComponentsUsed = []models.ComponentUsage{
		{ItemID: "panel-1", ItemName: "Solar Panel 450W", Quantity: 18},
	}
	if err := m.SaveFieldRecord(ctx, checkOut); err != nil {
		t.Fatal(err)
	}

	if err := engine.FinalizeService(ctx, checkOut.ID); err != nil {
		t.Fatalf("FinalizeService failed: %v", err)
	}

	panel := m.items["panel-1"]
	if panel.Quantity != 82 {
		t.Errorf("quantity: got %.1f, want 82 (100 - 18 consumed)", panel.Quantity)
	}
	if panel.ReservedQuantity != 0 {
		t.Errorf("reserved: got %.1f, want 0 (20 released)", panel.ReservedQuantity)
	}

	// Cascade: both records and the quote end up finalized.
	if m.records[checkOut.ID].Status != models.StatusFinalized {
		t.Error("check-out not finalized")
	}
	if m.records["ci-1"].Status != models.StatusFinalized {
		t.Error("linked check-in not finalized")
	}
	if m.quotes["q-1"].Status != models.QuoteStatusFinalized {
		t.Error("sales quote not finalized (case-insensitive client match)")
	}

	// One movement for the actual consumption.
	if len(m.movements) != 1 {
		t.Fatalf("movements: got %d, want 1", len(m.movements))
	}
	mv := m.movements[0]
	if mv.ItemID != "panel-1" || mv.Quantity != 18 || mv.ProjectName != "Hargrove Residence" {
		t.Errorf("movement mismatch: %+v", mv)
	}
	if mv.Note != string(models.KindCheckOut) {
		t.Errorf("movement note: got %q, want origin kind", mv.Note)
	}
}

func TestFinalizeCheckOutMissingLink(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 100, 20, 10)
	missing := "ci-gone"
	m.records["co-1"] = models.FieldRecord{
		ID: "co-1", Kind: models.KindCheckOut, Status: models.StatusOpen,
		ComponentsUsed: []models.ComponentUsage{{ItemID: "panel-1", Quantity: 18}},
		LinkedRecordID: &missing,
	}
	m.records["co-2"] = models.FieldRecord{
		ID: "co-2", Kind: models.KindCheckOut, Status: models.StatusOpen,
		ComponentsUsed: []models.ComponentUsage{{ItemID: "panel-1", Quantity: 18}},
	}

	engine := NewEngine(m)
	if err := engine.FinalizeService(ctx, "co-1"); !errors.Is(err, ErrMissingCheckIn) {
		t.Errorf("dangling link: got %v, want ErrMissingCheckIn", err)
	}
	if err := engine.FinalizeService(ctx, "co-2"); !errors.Is(err, ErrMissingCheckIn) {
		t.Errorf("nil link: got %v, want ErrMissingCheckIn", err)
	}

	// Blocked before any write.
	if item := m.items["panel-1"]; item.Quantity != 100 || item.ReservedQuantity != 20 {
		t.Error("rejected finalization must not touch stock")
	}
	if m.records["co-1"].Status != models.StatusOpen {
		t.Error("rejected finalization must leave the record open")
	}
}

func TestFinalizeMaintenanceReleasesNothing(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "cable-1", "Solar Cable 6mm", 200, 40, 20)
	m.records["mnt-1"] = models.FieldRecord{
		ID: "mnt-1", Kind: models.KindMaintenance, Status: models.StatusOpen,
		Project:        "Hargrove Residence",
		ComponentsUsed: []models.ComponentUsage{{ItemID: "cable-1", ItemName: "Solar Cable 6mm", Quantity: 30}},
	}

	engine := NewEngine(m)
	if err := engine.FinalizeService(ctx, "mnt-1"); err != nil {
		t.Fatalf("FinalizeService failed: %v", err)
	}

	cable := m.items["cable-1"]
	if cable.Quantity != 170 {
		t.Errorf("quantity: got %.1f, want 170", cable.Quantity)
	}
	// Maintenance has no reservation to release; other records' holds
	// must not leak into this finalization.
	if cable.ReservedQuantity != 40 {
		t.Errorf("reserved: got %.1f, want 40 (untouched)", cable.ReservedQuantity)
	}
	if m.records["mnt-1"].Status != models.StatusFinalized {
		t.Error("maintenance record not finalized")
	}
}

func TestSaveMaintenanceFinalizeNow(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "fuse-1", "DC Fuse 20A", 30, 0, 5)

	engine := NewEngine(m)
	rec := &models.FieldRecord{
		Project:        "Substation West",
		Responsible:    "R. Vega",
		Date:           time.Now().UTC(),
		ComponentsUsed: []models.ComponentUsage{{ItemID: "fuse-1", ItemName: "DC Fuse 20A", Quantity: 4}},
	}
	if err := engine.SaveMaintenance(ctx, rec, true); err != nil {
		t.Fatalf("SaveMaintenance failed: %v", err)
	}

	if rec.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if m.records[rec.ID].Status != models.StatusFinalized {
		t.Error("finalize-now maintenance must end up finalized")
	}
	if got := m.items["fuse-1"].Quantity; got != 26 {
		t.Errorf("quantity: got %.1f, want 26", got)
	}
	if len(m.movements) != 1 || m.movements[0].Note != string(models.KindMaintenance) {
		t.Errorf("expected one maintenance movement, got %+v", m.movements)
	}

	// Without the flag the record just stays open, no stock effect.
	rec2 := &models.FieldRecord{
		Project:        "Substation West",
		ComponentsUsed: []models.ComponentUsage{{ItemID: "fuse-1", Quantity: 4}},
	}
	if err := engine.SaveMaintenance(ctx, rec2, false); err != nil {
		t.Fatalf("SaveMaintenance failed: %v", err)
	}
	if m.records[rec2.ID].Status != models.StatusOpen {
		t.Error("plain save must leave the record open")
	}
	if got := m.items["fuse-1"].Quantity; got != 26 {
		t.Errorf("plain save must not deduct: got %.1f, want 26", got)
	}
}

func TestQuoteCascadeBestEffort(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 100, 20, 10)
	seedCheckIn(m, "ci-1", "No Quote Site",
		models.ComponentUsage{ItemID: "panel-1", Quantity: 20})

	engine := NewEngine(m)
	checkOut, err := engine.ConfirmSale(ctx, "ci-1")
	if err != nil {
		t.Fatal(err)
	}
	// No quote exists for this client; finalization must still succeed.
	if err := engine.FinalizeService(ctx, checkOut.ID); err != nil {
		t.Fatalf("finalize with no matching quote must not fail: %v", err)
	}
	if m.records[checkOut.ID].Status != models.StatusFinalized {
		t.Error("check-out not finalized")
	}
}

func TestPartialWriteSurfacesError(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()
	seedItem(m, "panel-1", "Solar Panel 450W", 100, 0, 10)
	seedItem(m, "inv-1", "Inverter 5kW", 10, 0, 2)
	m.records["mnt-1"] = models.FieldRecord{
		ID: "mnt-1", Kind: models.KindMaintenance, Status: models.StatusOpen,
		Project: "Site A",
		ComponentsUsed: []models.ComponentUsage{
			{ItemID: "panel-1", Quantity: 10},
			{ItemID: "inv-1", Quantity: 1},
		},
	}
	m.failSaveItem = "inv-1"

	engine := NewEngine(m)
	err := engine.FinalizeService(ctx, "mnt-1")
	if err == nil {
		t.Fatal("expected a storage error to surface")
	}

	// No rollback: the first item stays deducted, the record stays open so
	// the caller can retry the same finalize.
	if got := m.items["panel-1"].Quantity; got != 90 {
		t.Errorf("first item after partial failure: got %.1f, want 90", got)
	}
	if m.records["mnt-1"].Status != models.StatusOpen {
		t.Error("record must remain open after a partial-write failure")
	}

	// Retry after the fault clears: clamped deduction re-applies.
	m.failSaveItem = ""
	if err := engine.FinalizeService(ctx, "mnt-1"); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := m.items["inv-1"].Quantity; got != 9 {
		t.Errorf("second item after retry: got %.1f, want 9", got)
	}
}
