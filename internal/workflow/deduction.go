package workflow

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/store"
)

// applyDeduction reconciles consumed and reserved quantities against the
// stock ledger, one item at a time.
//
// For every distinct item appearing in either list: on-hand quantity drops by
// the consumed amount and the reservation drops by the reserved amount, each
// clamped at zero and tracked independently. A movement is appended only for
// actual consumption, and the replenishment check runs on the fresh balance
// before the next item is touched.
//
// Reservation and consumption stay decoupled on the same row so a reservation
// made at confirmation survives edits to actual consumption at finalization
// without going negative or leaking into unrelated records.
func (e *Engine) applyDeduction(ctx context.Context, consumed, reserved []models.ComponentUsage, project, originKind string) error {
	for _, itemID := range unionItemIDs(consumed, reserved) {
		item, err := e.store.GetStockItem(ctx, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Printf("⚠️ Deduction: stock item %s not found, skipping", itemID)
				continue
			}
			return err
		}

		consumedQty := quantityFor(consumed, itemID)
		reservedQty := quantityFor(reserved, itemID)

		item.Quantity = max(0, item.Quantity-consumedQty)
		item.ReservedQuantity = max(0, item.ReservedQuantity-reservedQty)

		if err := e.store.SaveStockItem(ctx, item); err != nil {
			return err
		}

		if consumedQty > 0 {
			mv := &models.StockMovement{
				ID:          uuid.New().String(),
				ItemID:      item.ID,
				Quantity:    consumedQty,
				Date:        e.now(),
				ProjectName: project,
				Note:        originKind,
			}
			if err := e.store.AppendStockMovement(ctx, mv); err != nil {
				return err
			}
		}

		if err := e.checkReplenishment(ctx, item, project); err != nil {
			return err
		}

		e.notifyStock(item)
	}
	return nil
}

// unionItemIDs returns the distinct item ids of both lists, consumed first,
// preserving order of first appearance.
func unionItemIDs(consumed, reserved []models.ComponentUsage) []string {
	seen := make(map[string]bool, len(consumed)+len(reserved))
	ids := make([]string, 0, len(consumed)+len(reserved))
	for _, list := range [][]models.ComponentUsage{consumed, reserved} {
		for _, c := range list {
			if c.ItemID == "" || seen[c.ItemID] {
				continue
			}
			seen[c.ItemID] = true
			ids = append(ids, c.ItemID)
		}
	}
	return ids
}

func quantityFor(list []models.ComponentUsage, itemID string) float64 {
	for _, c := range list {
		if c.ItemID == itemID {
			return c.Quantity
		}
	}
	return 0
}
