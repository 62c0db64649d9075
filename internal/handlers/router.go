package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sunvolt/fieldopsgo/internal/buildinfo"
	"github.com/sunvolt/fieldopsgo/internal/config"
	"github.com/sunvolt/fieldopsgo/internal/database"
	"github.com/sunvolt/fieldopsgo/internal/middleware"
	"github.com/sunvolt/fieldopsgo/internal/store"
	"github.com/sunvolt/fieldopsgo/internal/websocket"
	"github.com/sunvolt/fieldopsgo/internal/workflow"
)

// Router wraps the mux router and the service dependencies
type Router struct {
	*mux.Router
	cfg    *config.Config
	db     *database.DB
	store  store.Store
	engine *workflow.Engine
	hub    *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, db *database.DB, st store.Store, engine *workflow.Engine, hub *websocket.Hub) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		cfg:    cfg,
		db:     db,
		store:  st,
		engine: engine,
		hub:    hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Live operations feed
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(r.hub, w, req)
	})

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg))

	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Field records and the three workflow transitions
	api.HandleFunc("/records", r.listRecords).Methods("GET")
	api.HandleFunc("/records", r.createRecord).Methods("POST")
	api.HandleFunc("/records/{id}", r.getRecord).Methods("GET")
	api.HandleFunc("/records/{id}", r.updateRecord).Methods("PUT")
	api.HandleFunc("/records/{id}/confirm", r.confirmSale).Methods("POST")
	api.HandleFunc("/records/{id}/lost", r.markLost).Methods("POST")
	api.HandleFunc("/records/{id}/finalize", r.finalizeService).Methods("POST")
	api.HandleFunc("/records/{id}/workorder.pdf", r.workOrderPDF).Methods("GET")

	// Stock ledger (catalog management)
	api.HandleFunc("/stock", r.listStockItems).Methods("GET")
	api.HandleFunc("/stock", r.createStockItem).Methods("POST")
	api.HandleFunc("/stock/{id}", r.getStockItem).Methods("GET")
	api.HandleFunc("/stock/{id}", r.updateStockItem).Methods("PUT")
	api.HandleFunc("/stock/{id}", r.deleteStockItem).Methods("DELETE")
	api.HandleFunc("/stock/{id}/movements", r.listItemMovements).Methods("GET")
	api.HandleFunc("/movements", r.listMovements).Methods("GET")

	// Purchasing and sales collaborator views
	api.HandleFunc("/purchase-requests", r.listPurchaseRequests).Methods("GET")
	api.HandleFunc("/quotes", r.listQuotes).Methods("GET")
	api.HandleFunc("/quotes", r.createQuote).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns build/runtime info
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "running",
		"startedAt": buildinfo.StartTime,
		"commit":    buildinfo.CommitHash,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
