package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/sunvolt/fieldopsgo/internal/models"
)

// forwarderSpy records forwarded requests and optionally fails.
type forwarderSpy struct {
	forwarded []models.PurchaseRequest
	fail      bool
}

func (f *forwarderSpy) Forward(_ context.Context, pr *models.PurchaseRequest) error {
	if f.fail {
		return errors.New("purchasing bridge unreachable")
	}
	f.forwarded = append(f.forwarded, *pr)
	return nil
}

func finalizeMaintenance(t *testing.T, engine *Engine, m *memStore, itemID string, qty float64) {
	t.Helper()
	rec := &models.FieldRecord{
		Project:        "Ridgeline Farm",
		ComponentsUsed: []models.ComponentUsage{{ItemID: itemID, Quantity: qty}},
	}
	if err := engine.SaveMaintenance(context.Background(), rec, true); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
}

// Min 5, on-hand 12, consume 10. Balance 2 is below
// minimum, so order (5*2)-2 = 8.
func TestReorderFormula(t *testing.T) {
	m := newMemStore()
	seedItem(m, "opt-1", "Power Optimizer", 12, 0, 5)

	engine := NewEngine(m)
	finalizeMaintenance(t, engine, m, "opt-1", 10)

	pending := m.pendingRequests()
	if len(pending) != 1 {
		t.Fatalf("pending requests: got %d, want 1", len(pending))
	}
	pr := pending[0]
	if pr.Quantity != 8 {
		t.Errorf("buy quantity: got %.1f, want 8", pr.Quantity)
	}
	if pr.Priority != models.PurchasePriorityHigh {
		t.Errorf("priority: got %s, want high", pr.Priority)
	}
	if pr.PurchaseType != "replenishment" {
		t.Errorf("purchase type: got %s, want replenishment", pr.PurchaseType)
	}
	if pr.ClientName != "Ridgeline Farm" {
		t.Errorf("originating project: got %s", pr.ClientName)
	}
	if pr.Note == "" {
		t.Error("note must record the triggering balance")
	}
}

func TestNoReorderAboveMinimum(t *testing.T) {
	m := newMemStore()
	seedItem(m, "opt-1", "Power Optimizer", 12, 0, 5)

	engine := NewEngine(m)
	finalizeMaintenance(t, engine, m, "opt-1", 3) // 9 left, above min

	if n := len(m.requests); n != 0 {
		t.Errorf("requests: got %d, want 0", n)
	}
}

// At-most-one-open-request: a pending request for the same item name, matched
// case-insensitively, suppresses a new one. Done/cancelled requests do not.
func TestAtMostOnePendingRequest(t *testing.T) {
	m := newMemStore()
	seedItem(m, "opt-1", "Power Optimizer", 12, 0, 5)
	m.requests["pr-old"] = models.PurchaseRequest{
		ID: "pr-old", ItemName: "POWER OPTIMIZER", Status: models.PurchaseStatusOrdered,
	}

	engine := NewEngine(m)
	finalizeMaintenance(t, engine, m, "opt-1", 10)

	if n := len(m.pendingRequests()); n != 1 {
		t.Fatalf("pending requests: got %d, want only the pre-existing one", n)
	}

	// Once the old request is done, the next shortage raises a fresh one.
	m.requests["pr-old"] = models.PurchaseRequest{
		ID: "pr-old", ItemName: "POWER OPTIMIZER", Status: models.PurchaseStatusDone,
	}
	finalizeMaintenance(t, engine, m, "opt-1", 1) // 1 left, below min

	if n := len(m.pendingRequests()); n != 1 {
		t.Errorf("pending requests after old one closed: got %d, want 1", n)
	}
}

// Idempotent clamp: repeating the same deduction against an exhausted item
// keeps it at zero and never errors.
func TestDeductionClampIdempotent(t *testing.T) {
	m := newMemStore()
	seedItem(m, "opt-1", "Power Optimizer", 4, 0, 0) // min 0: no reorder noise

	engine := NewEngine(m)
	for i := 0; i < 3; i++ {
		finalizeMaintenance(t, engine, m, "opt-1", 10)
		if got := m.items["opt-1"].Quantity; got != 0 {
			t.Fatalf("pass %d: quantity got %.1f, want 0", i, got)
		}
	}
	if got := m.items["opt-1"].ReservedQuantity; got != 0 {
		t.Errorf("reserved drifted negative-ward: got %.1f", got)
	}
}

func TestForwarderBestEffort(t *testing.T) {
	m := newMemStore()
	seedItem(m, "opt-1", "Power Optimizer", 12, 0, 5)

	spy := &forwarderSpy{fail: true}
	engine := NewEngine(m)
	engine.SetForwarder(spy)

	// A dead bridge must not fail the transition, and the request must
	// still be persisted locally.
	finalizeMaintenance(t, engine, m, "opt-1", 10)
	if n := len(m.pendingRequests()); n != 1 {
		t.Fatalf("request not persisted despite bridge failure: got %d", n)
	}

	m2 := newMemStore()
	seedItem(m2, "opt-1", "Power Optimizer", 12, 0, 5)
	spy2 := &forwarderSpy{}
	engine2 := NewEngine(m2)
	engine2.SetForwarder(spy2)

	finalizeMaintenance(t, engine2, m2, "opt-1", 10)
	if len(spy2.forwarded) != 1 {
		t.Fatalf("forwarded: got %d, want 1", len(spy2.forwarded))
	}
	if spy2.forwarded[0].ItemName != "Power Optimizer" {
		t.Errorf("forwarded wrong request: %+v", spy2.forwarded[0])
	}
}
