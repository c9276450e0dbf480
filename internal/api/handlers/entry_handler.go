package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/keyforge/keyforge-be/internal/auth"
	"github.com/keyforge/keyforge-be/internal/models"
	"github.com/keyforge/keyforge-be/internal/services"
	"github.com/rs/zerolog/log"
)

// EntryHandler handles HTTP requests for stored credential entries. All
// routes are mounted behind the auth and master password middlewares.
type EntryHandler struct {
	service services.EntryServiceProvider
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(service services.EntryServiceProvider) *EntryHandler {
	return &EntryHandler{service: service}
}

// GetAll returns the caller's entries, oldest first.
func (h *EntryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	entries, err := h.service.List(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to fetch entries")
		http.Error(w, "Failed to fetch password entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Create stores a new entry for the caller.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload models.InsertPasswordEntry
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Create(claims.UserID, payload)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to create entry")
		writeError(w, err, "Failed to create password entry")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// Delete removes one of the caller's entries by id.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(id, claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("entry_id", id).Msg("Failed to delete entry")
		http.Error(w, "Failed to delete password entry", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Password entry not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password entry deleted successfully"})
}

// Clear removes all of the caller's entries.
func (h *EntryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := h.service.Clear(claims.UserID); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to clear entries")
		http.Error(w, "Failed to clear password entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All password entries cleared successfully"})
}
