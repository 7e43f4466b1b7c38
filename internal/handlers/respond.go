package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mealcheckin/internal/entries"
	"mealcheckin/internal/goals"
	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/users"
)

var errInvalidDate = errors.New("invalid date format; expected YYYY-MM-DD")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Nothing is swallowed:
// the body carries the error text the core returned.
func writeError(w http.ResponseWriter, err error) {
	var entryValidation *entries.ValidationError
	var goalValidation *goals.ValidationError
	switch {
	case errors.As(err, &entryValidation), errors.As(err, &goalValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entries.ErrNotFound), errors.Is(err, users.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, entries.ErrAlreadyCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, users.ErrEmailExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, kvstore.ErrUnavailable):
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
