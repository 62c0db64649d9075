// Package purchasing bridges locally raised purchase requests to the external
// purchasing system. The purchasing module owns the request lifecycle; this
// side only hands over freshly created requests, best-effort.
package purchasing

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/sunvolt/fieldopsgo/internal/config"
	"github.com/sunvolt/fieldopsgo/internal/models"
)

// Service forwards purchase requests over the XML-RPC bridge. A Service with
// no URL configured is disabled and turns every Forward into a no-op.
type Service struct {
	client *Client
	cfg    config.PurchasingConfig

	mu     sync.Mutex
	authed bool
}

// NewService creates the bridge from configuration.
func NewService(cfg config.PurchasingConfig) *Service {
	s := &Service{cfg: cfg}
	if cfg.URL != "" {
		s.client = NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password)
	} else {
		log.Println("Purchasing bridge disabled: PURCHASING_URL not configured")
	}
	return s
}

// Enabled reports whether a purchasing system is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Forward pushes one purchase request to the purchasing system.
func (s *Service) Forward(ctx context.Context, pr *models.PurchaseRequest) error {
	if s.client == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureAuth(); err != nil {
		return err
	}

	values := map[string]interface{}{
		"name":          pr.ItemName,
		"quantity":      pr.Quantity,
		"uom":           pr.Unit,
		"priority":      pr.Priority,
		"partner_ref":   pr.ClientName,
		"purchase_type": pr.PurchaseType,
		"notes":         pr.Note,
		"origin":        fmt.Sprintf("fieldops/%s", pr.ID),
	}

	remoteID, err := s.client.Create("purchase.request", values)
	if err != nil {
		// Drop the session; the next attempt re-authenticates.
		s.mu.Lock()
		s.authed = false
		s.mu.Unlock()
		return err
	}

	log.Printf("📡 Purchasing: request %s forwarded (remote id %d)", pr.ID, remoteID)
	return nil
}

func (s *Service) ensureAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authed {
		return nil
	}
	if _, err := s.client.Authenticate(); err != nil {
		return err
	}
	s.authed = true
	return nil
}
