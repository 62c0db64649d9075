package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sunvolt/fieldopsgo/internal/models"
)

// listPurchaseRequests returns all purchase requests, newest first. The
// engine only ever creates requests; their lifecycle is driven by the
// purchasing module, so this is a read-only view.
func (r *Router) listPurchaseRequests(w http.ResponseWriter, req *http.Request) {
	requests, err := r.store.ListPurchaseRequests(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch purchase requests")
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

// listQuotes returns all sales quotes
func (r *Router) listQuotes(w http.ResponseWriter, req *http.Request) {
	quotes, err := r.store.ListSalesQuotes(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch quotes")
		return
	}
	respondJSON(w, http.StatusOK, quotes)
}

// createQuote registers a sales quote so check-out finalizations can close it
func (r *Router) createQuote(w http.ResponseWriter, req *http.Request) {
	var quote models.SalesQuote
	if err := json.NewDecoder(req.Body).Decode(&quote); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if quote.ClientName == "" {
		respondError(w, http.StatusBadRequest, "clientName is required")
		return
	}
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	if quote.Status == "" {
		quote.Status = models.QuoteStatusOpen
	}
	if quote.Date.IsZero() {
		quote.Date = time.Now().UTC()
	}
	if err := r.store.SaveSalesQuote(req.Context(), &quote); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}
	respondJSON(w, http.StatusCreated, quote)
}
