package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sunvolt/fieldopsgo/internal/models"
)

// checkReplenishment raises a purchase request when a deduction has dropped an
// item below its minimum quantity. At most one pending request may exist per
// item; the reorder targets twice the safety threshold, absorbing the
// deduction that just happened plus one reorder cycle of buffer.
func (e *Engine) checkReplenishment(ctx context.Context, item *models.StockItem, project string) error {
	if item.MinQuantity <= 0 || item.Quantity >= item.MinQuantity {
		return nil
	}

	requests, err := e.store.ListPurchaseRequests(ctx)
	if err != nil {
		return err
	}
	for i := range requests {
		// Name match is case-insensitive; the purchasing module keys on
		// item names, not catalog ids.
		if requests[i].Pending() && strings.EqualFold(requests[i].ItemName, item.Name) {
			return nil
		}
	}

	buyQuantity := item.MinQuantity*2 - item.Quantity
	if buyQuantity <= 0 {
		return nil
	}

	pr := &models.PurchaseRequest{
		ID:           uuid.New().String(),
		ItemName:     item.Name,
		Quantity:     buyQuantity,
		Unit:         item.Unit,
		Priority:     models.PurchasePriorityHigh,
		Status:       models.PurchaseStatusOpen,
		ClientName:   project,
		PurchaseType: "replenishment",
		Note: fmt.Sprintf("auto-reorder: balance %.2f fell below minimum %.2f, ordering %.2f (2x minimum - balance)",
			item.Quantity, item.MinQuantity, buyQuantity),
	}
	if err := e.store.SavePurchaseRequest(ctx, pr); err != nil {
		return err
	}
	log.Printf("📦 Replenishment: raised purchase request for %s (qty %.2f)", item.Name, buyQuantity)

	if e.forwarder != nil {
		if err := e.forwarder.Forward(ctx, pr); err != nil {
			// The request is persisted; the purchasing module will pick
			// it up even if the bridge is down.
			log.Printf("⚠️ Replenishment: failed to forward request %s: %v", pr.ID, err)
		}
	}
	if e.notifier != nil {
		e.notifier.PurchaseRequested(pr)
	}
	return nil
}
