package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/keyforge/keyforge-be/internal/auth"
	"github.com/keyforge/keyforge-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MasterPasswordHandler handles master password setup, verification and status.
type MasterPasswordHandler struct {
	service services.MasterPasswordServiceProvider
}

// NewMasterPasswordHandler creates a new MasterPasswordHandler.
func NewMasterPasswordHandler(service services.MasterPasswordServiceProvider) *MasterPasswordHandler {
	return &MasterPasswordHandler{service: service}
}

// MasterPasswordPayload carries the candidate master password.
type MasterPasswordPayload struct {
	MasterPassword string `json:"masterPassword"`
}

// Setup sets the user's master password for the first time. The current
// session comes out verified; a second setup fails without altering the hash.
func (h *MasterPasswordHandler) Setup(w http.ResponseWriter, r *http.Request) {
	claims, sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var payload MasterPasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Setup(claims.UserID, sessionID, payload.MasterPassword); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Master password setup failed")
		writeError(w, err, "Failed to set master password")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Master password set successfully"})
}

// Verify checks the candidate against the stored hash and, on success, marks
// the current session verified.
func (h *MasterPasswordHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, sessionID, ok := requireSession(w, r)
	if !ok {
		return
	}

	var payload MasterPasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Verify(claims.UserID, sessionID, payload.MasterPassword); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Master password verification failed")
		writeError(w, err, "Failed to verify master password")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Master password verified successfully"})
}

// Status reports whether a master password exists and whether this session
// has verified it.
func (h *MasterPasswordHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	sessionID, _ := auth.SessionIDFromContext(r.Context())

	status, err := h.service.Status(claims.UserID, sessionID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to check master password status")
		writeError(w, err, "Failed to check master password status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// requireSession pulls the identity and a live session id from the request
// context. Setup and verify mutate session state, so a missing session means
// the client has to log in again.
func requireSession(w http.ResponseWriter, r *http.Request) (*auth.Claims, string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return nil, "", false
	}
	sessionID, ok := auth.SessionIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Session expired, log in again", http.StatusUnauthorized)
		return nil, "", false
	}
	return claims, sessionID, true
}
