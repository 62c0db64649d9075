package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/store"
)

// listStockItems returns the full material catalog with ledger numbers
func (r *Router) listStockItems(w http.ResponseWriter, req *http.Request) {
	items, err := r.store.ListStockItems(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stock items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// getStockItem returns a single stock item
func (r *Router) getStockItem(w http.ResponseWriter, req *http.Request) {
	item, err := r.store.GetStockItem(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Stock item not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch stock item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// createStockItem adds a material to the catalog
func (r *Router) createStockItem(w http.ResponseWriter, req *http.Request) {
	var item models.StockItem
	if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if item.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.store.SaveStockItem(req.Context(), &item); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create stock item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// updateStockItem edits catalog fields. Ledger quantities move only through
// workflow transitions, so they are not writable here.
func (r *Router) updateStockItem(w http.ResponseWriter, req *http.Request) {
	item, err := r.store.GetStockItem(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Stock item not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch stock item")
		return
	}

	var input models.StockItem
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	item.Name = input.Name
	item.Unit = input.Unit
	item.MinQuantity = input.MinQuantity
	item.AveragePrice = input.AveragePrice

	if err := r.store.SaveStockItem(req.Context(), item); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save stock item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// deleteStockItem removes a material from the catalog
func (r *Router) deleteStockItem(w http.ResponseWriter, req *http.Request) {
	if err := r.store.DeleteStockItem(req.Context(), mux.Vars(req)["id"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete stock item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// listItemMovements returns the consumption history of one item
func (r *Router) listItemMovements(w http.ResponseWriter, req *http.Request) {
	movements, err := r.store.ListStockMovements(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch movements")
		return
	}
	respondJSON(w, http.StatusOK, movements)
}

// listMovements returns the full consumption log
func (r *Router) listMovements(w http.ResponseWriter, req *http.Request) {
	movements, err := r.store.ListStockMovements(req.Context(), "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch movements")
		return
	}
	respondJSON(w, http.StatusOK, movements)
}
