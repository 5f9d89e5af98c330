package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"dijital-vitrin/repository"
)

// writeJSON encodes data with the given status
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Error encoding JSON response: %v", err)
	}
}

// writeLookupError maps repository errors to 404 or 500
func writeLookupError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, what+" not found", http.StatusNotFound)
		return
	}
	http.Error(w, "Failed to load "+strings.ToLower(what), http.StatusInternalServerError)
}

func isLookupError(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// wantsJSON reports whether the client asked for a JSON answer instead of a redirect
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
