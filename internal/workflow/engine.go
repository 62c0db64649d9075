// Package workflow owns the field-record lifecycle and every side effect a
// transition triggers on the stock ledger, the movement log, the
// replenishment planner and linked records.
//
// There is no distributed transaction behind a transition: each step is an
// independent store write, performed sequentially in a fixed order. A failure
// partway through leaves the completed writes in place and surfaces the error;
// re-running the same transition converges because deductions clamp at zero.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/store"
)

// Validation errors. These are detected before any write is attempted, so a
// caller seeing one knows the system state is untouched.
var (
	ErrWrongKind      = errors.New("transition not allowed for this record kind")
	ErrNotOpen        = errors.New("record is not open")
	ErrNoComponents   = errors.New("record has no components attached")
	ErrMissingCheckIn = errors.New("linked check-in record not found")
)

// Notifier receives engine events for the live operations feed.
// All calls are best-effort; implementations must not block.
type Notifier interface {
	RecordTransitioned(rec *models.FieldRecord)
	StockChanged(item *models.StockItem)
	PurchaseRequested(pr *models.PurchaseRequest)
}

// Forwarder pushes newly created purchase requests to the external purchasing
// system. Forwarding is best-effort: the request is already persisted locally
// and the purchasing module owns its lifecycle from there.
type Forwarder interface {
	Forward(ctx context.Context, pr *models.PurchaseRequest) error
}

// Engine drives field-record transitions against a record store.
type Engine struct {
	store     store.Store
	notifier  Notifier
	forwarder Forwarder
}

// NewEngine creates a workflow engine on top of the given store.
func NewEngine(st store.Store) *Engine {
	return &Engine{store: st}
}

// SetNotifier attaches the live event feed.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// SetForwarder attaches the purchasing bridge.
func (e *Engine) SetForwarder(f Forwarder) {
	e.forwarder = f
}

// ConfirmSale moves an open CheckIn to confirmed: reserves every attached
// component quantity on the stock ledger, spawns the CheckOut the technicians
// will finalize later, then persists the CheckIn as confirmed.
func (e *Engine) ConfirmSale(ctx context.Context, checkInID string) (*models.FieldRecord, error) {
	rec, err := e.store.GetFieldRecord(ctx, checkInID)
	if err != nil {
		return nil, err
	}
	if rec.Kind != models.KindCheckIn {
		return nil, ErrWrongKind
	}
	if rec.Status != models.StatusOpen {
		return nil, ErrNotOpen
	}
	if len(rec.ComponentsUsed) == 0 {
		return nil, ErrNoComponents
	}

	// 1. Soft-hold the reserved quantities. On-hand stock is untouched.
	for _, c := range rec.ComponentsUsed {
		item, err := e.store.GetStockItem(ctx, c.ItemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Catalog entry was removed after the check-in was drafted.
				log.Printf("⚠️ ConfirmSale: stock item %s (%s) not found, skipping reservation", c.ItemID, c.ItemName)
				continue
			}
			return nil, err
		}
		item.ReservedQuantity += c.Quantity
		if err := e.store.SaveStockItem(ctx, item); err != nil {
			return nil, err
		}
		e.notifyStock(item)
	}

	// 2. Spawn the CheckOut with a copy of the reserved components. The
	// technician may edit actual consumption before finalizing.
	checkOut := &models.FieldRecord{
		ID:             uuid.New().String(),
		OwnerID:        rec.OwnerID,
		Kind:           models.KindCheckOut,
		Project:        rec.Project,
		Responsible:    rec.Responsible,
		Date:           rec.Date,
		Status:         models.StatusOpen,
		ComponentsUsed: append(rec.ComponentsUsed[:0:0], rec.ComponentsUsed...),
		LinkedRecordID: &rec.ID,
	}
	if err := e.store.SaveFieldRecord(ctx, checkOut); err != nil {
		return nil, fmt.Errorf("failed to spawn check-out: %w", err)
	}

	// 3. Persist the confirmation.
	rec.Status = models.StatusConfirmed
	if err := e.store.SaveFieldRecord(ctx, rec); err != nil {
		return nil, err
	}

	e.notifyRecord(checkOut)
	e.notifyRecord(rec)
	return checkOut, nil
}

// MarkLost moves an open CheckIn to lost. Terminal; no stock effect, no
// cascade.
func (e *Engine) MarkLost(ctx context.Context, checkInID string) error {
	rec, err := e.store.GetFieldRecord(ctx, checkInID)
	if err != nil {
		return err
	}
	if rec.Kind != models.KindCheckIn {
		return ErrWrongKind
	}
	if rec.Status != models.StatusOpen {
		return ErrNotOpen
	}

	rec.Status = models.StatusLost
	if err := e.store.SaveFieldRecord(ctx, rec); err != nil {
		return err
	}
	e.notifyRecord(rec)
	return nil
}

// FinalizeService moves an open CheckOut or Maintenance record to finalized:
// consumes its components from stock (releasing the originally reserved
// quantities for a CheckOut), then cascades to the linked CheckIn and the
// matching sales quote.
func (e *Engine) FinalizeService(ctx context.Context, recordID string) error {
	rec, err := e.store.GetFieldRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.Kind != models.KindCheckOut && rec.Kind != models.KindMaintenance {
		return ErrWrongKind
	}
	if rec.Status != models.StatusOpen {
		return ErrNotOpen
	}

	// For a CheckOut, the linked CheckIn holds the quantities reserved at
	// confirmation; those are released during the deduction. Resolve it up
	// front so a broken link blocks the transition before any write.
	var checkIn *models.FieldRecord
	var reserved []models.ComponentUsage
	if rec.Kind == models.KindCheckOut {
		if rec.LinkedRecordID == nil {
			return ErrMissingCheckIn
		}
		checkIn, err = e.store.GetFieldRecord(ctx, *rec.LinkedRecordID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMissingCheckIn
			}
			return err
		}
		reserved = checkIn.ComponentsUsed
	}

	// 1. Deduct consumption, release reservations, record movements, check
	// replenishment. Per-item, clamped at zero.
	if err := e.applyDeduction(ctx, rec.ComponentsUsed, reserved, rec.Project, string(rec.Kind)); err != nil {
		return err
	}

	// 2. Persist the finalization.
	rec.Status = models.StatusFinalized
	if err := e.store.SaveFieldRecord(ctx, rec); err != nil {
		return err
	}
	e.notifyRecord(rec)

	// 3. Cascade: close the originating check-in and the sales quote.
	if checkIn != nil {
		checkIn.Status = models.StatusFinalized
		if err := e.store.SaveFieldRecord(ctx, checkIn); err != nil {
			return err
		}
		e.notifyRecord(checkIn)
		e.finalizeQuote(ctx, rec.Project)
	}

	return nil
}

// SaveMaintenance persists a maintenance record, creating it if new. When
// finalizeNow is set the record is finalized in the same call, so save and
// finalize share one deduction routine instead of diverging.
func (e *Engine) SaveMaintenance(ctx context.Context, rec *models.FieldRecord, finalizeNow bool) error {
	rec.Kind = models.KindMaintenance
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Status == "" {
		rec.Status = models.StatusOpen
	}
	if err := e.store.SaveFieldRecord(ctx, rec); err != nil {
		return err
	}
	if !finalizeNow {
		return nil
	}
	return e.FinalizeService(ctx, rec.ID)
}

// finalizeQuote marks the open sales quote whose client name matches the
// project as finalized. Best-effort: quote linkage is by name and a match may
// legitimately not exist.
func (e *Engine) finalizeQuote(ctx context.Context, project string) {
	quotes, err := e.store.ListSalesQuotes(ctx)
	if err != nil {
		log.Printf("⚠️ Quote cascade: failed to list sales quotes: %v", err)
		return
	}
	for i := range quotes {
		q := &quotes[i]
		if q.Status != models.QuoteStatusOpen || !strings.EqualFold(q.ClientName, project) {
			continue
		}
		q.Status = models.QuoteStatusFinalized
		if err := e.store.SaveSalesQuote(ctx, q); err != nil {
			log.Printf("⚠️ Quote cascade: failed to finalize quote %s: %v", q.ID, err)
		}
		return
	}
	log.Printf("Quote cascade: no open quote for client %q", project)
}

func (e *Engine) notifyRecord(rec *models.FieldRecord) {
	if e.notifier != nil {
		e.notifier.RecordTransitioned(rec)
	}
}

func (e *Engine) notifyStock(item *models.StockItem) {
	if e.notifier != nil {
		e.notifier.StockChanged(item)
	}
}

func (e *Engine) now() time.Time {
	return time.Now().UTC()
}
