package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/keyforge/keyforge-be/internal/generator"
)

// Hard upper bound on parts per password; each part can be up to 7 characters.
const maxParts = 256

// GeneratorHandler serves password generation and strength estimation.
// Both operations are pure; no authentication is required.
type GeneratorHandler struct{}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler() *GeneratorHandler {
	return &GeneratorHandler{}
}

// Generate produces a password from the requested composition policy and
// scores it in the same response.
func (h *GeneratorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var opts generator.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if opts.Length < 0 || opts.Length > maxParts {
		http.Error(w, "Length must be between 0 and 256", http.StatusBadRequest)
		return
	}

	password := generator.Generate(opts)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"password": password,
		"strength": generator.Estimate(password),
	})
}

// StrengthPayload carries a password to score.
type StrengthPayload struct {
	Password string `json:"password"`
}

// Strength scores an arbitrary password against the fixed rubric.
func (h *GeneratorHandler) Strength(w http.ResponseWriter, r *http.Request) {
	var payload StrengthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(generator.Estimate(payload.Password))
}
