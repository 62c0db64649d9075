package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sunvolt/fieldopsgo/internal/middleware"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/services/printer"
	"github.com/sunvolt/fieldopsgo/internal/store"
	"github.com/sunvolt/fieldopsgo/internal/workflow"
)

// RecordInput is the payload for creating or updating a field record.
type RecordInput struct {
	Kind           models.RecordKind       `json:"kind"`
	Project        string                  `json:"project"`
	Responsible    string                  `json:"responsible"`
	Date           time.Time               `json:"date"`
	ComponentsUsed []models.ComponentUsage `json:"componentsUsed"`

	// Maintenance only: consume stock and finalize in the same save, for
	// visits where the used quantities are already known.
	FinalizeNow bool `json:"finalizeNow"`
}

var validKinds = map[models.RecordKind]bool{
	models.KindCheckIn:     true,
	models.KindCheckOut:    true,
	models.KindMaintenance: true,
}

// listRecords returns records of one kind, scoped to the caller unless
// all=true is passed.
func (r *Router) listRecords(w http.ResponseWriter, req *http.Request) {
	kind := models.RecordKind(req.URL.Query().Get("kind"))
	if !validKinds[kind] {
		respondError(w, http.StatusBadRequest, "kind must be check_in, check_out or maintenance")
		return
	}
	allOwners := req.URL.Query().Get("all") == "true"

	records, err := r.store.ListFieldRecords(req.Context(), kind, middleware.UserID(req), allOwners)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// getRecord returns a single field record of any kind
func (r *Router) getRecord(w http.ResponseWriter, req *http.Request) {
	rec, err := r.store.GetFieldRecord(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// createRecord saves a new field record with status open. A maintenance
// record with finalizeNow set consumes its components immediately.
func (r *Router) createRecord(w http.ResponseWriter, req *http.Request) {
	var input RecordInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if !validKinds[input.Kind] {
		respondError(w, http.StatusBadRequest, "kind must be check_in, check_out or maintenance")
		return
	}
	if input.FinalizeNow && input.Kind != models.KindMaintenance {
		respondError(w, http.StatusBadRequest, "finalizeNow is only allowed for maintenance records")
		return
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}

	rec := &models.FieldRecord{
		ID:             uuid.New().String(),
		OwnerID:        middleware.UserID(req),
		Kind:           input.Kind,
		Project:        input.Project,
		Responsible:    input.Responsible,
		Date:           input.Date,
		Status:         models.StatusOpen,
		ComponentsUsed: input.ComponentsUsed,
	}

	if input.Kind == models.KindMaintenance {
		if err := r.engine.SaveMaintenance(req.Context(), rec, input.FinalizeNow); err != nil {
			r.respondTransitionError(w, err)
			return
		}
	} else if err := r.store.SaveFieldRecord(req.Context(), rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save record")
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// updateRecord edits an open record: site details and, ahead of
// finalization, the component quantities actually used.
func (r *Router) updateRecord(w http.ResponseWriter, req *http.Request) {
	rec, err := r.store.GetFieldRecord(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch record")
		return
	}
	if rec.Status != models.StatusOpen {
		respondError(w, http.StatusConflict, "Only open records can be edited")
		return
	}

	var input RecordInput
	if err := json.NewDecoder(req.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	// Kind and linkage are fixed at creation.
	rec.Project = input.Project
	rec.Responsible = input.Responsible
	if !input.Date.IsZero() {
		rec.Date = input.Date
	}
	rec.ComponentsUsed = input.ComponentsUsed

	if err := r.store.SaveFieldRecord(req.Context(), rec); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save record")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// confirmSale confirms an open check-in: reserves stock and spawns the
// check-out.
func (r *Router) confirmSale(w http.ResponseWriter, req *http.Request) {
	checkOut, err := r.engine.ConfirmSale(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		r.respondTransitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkOut)
}

// markLost marks an open check-in as lost
func (r *Router) markLost(w http.ResponseWriter, req *http.Request) {
	if err := r.engine.MarkLost(req.Context(), mux.Vars(req)["id"]); err != nil {
		r.respondTransitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.StatusLost)})
}

// finalizeService finalizes an open check-out or maintenance record
func (r *Router) finalizeService(w http.ResponseWriter, req *http.Request) {
	if err := r.engine.FinalizeService(req.Context(), mux.Vars(req)["id"]); err != nil {
		r.respondTransitionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.StatusFinalized)})
}

// workOrderPDF streams the printable work-order sheet for a record
func (r *Router) workOrderPDF(w http.ResponseWriter, req *http.Request) {
	rec, err := r.store.GetFieldRecord(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch record")
		return
	}

	pdf, err := printer.GenerateWorkOrderPDF(rec)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate work order")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=workorder-%s.pdf", rec.ID))
	w.Write(pdf)
}

// respondTransitionError maps engine errors onto HTTP statuses: validation
// failures are the caller's problem and carry an explanation, anything else
// is a storage fault the user should retry.
func (r *Router) respondTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, workflow.ErrWrongKind),
		errors.Is(err, workflow.ErrNoComponents),
		errors.Is(err, workflow.ErrMissingCheckIn):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrNotOpen):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "The action could not be completed, please retry")
	}
}
