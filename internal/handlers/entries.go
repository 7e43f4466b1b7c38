package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mealcheckin/internal/entries"
	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
	"mealcheckin/internal/notify"
	"mealcheckin/internal/services"
	"mealcheckin/internal/stats"
)

// entriesKey namespaces each user's collection. The suffix is the storage
// key the mobile app has always used on-device.
func entriesKey(userID string) string {
	return "user:" + userID + ":pending_entries"
}

type EntriesHandler struct {
	kv        kvstore.Store
	reminders notify.Scheduler
	encSvc    *services.EncryptionService
}

func NewEntriesHandler(kv kvstore.Store, reminders notify.Scheduler, encSvc *services.EncryptionService) *EntriesHandler {
	return &EntriesHandler{kv: kv, reminders: reminders, encSvc: encSvc}
}

func (h *EntriesHandler) store(r *http.Request) *entries.Store {
	userID := r.Context().Value("userID").(string)
	return entries.NewStore(h.kv, entriesKey(userID), h.reminders)
}

// Create records the phase-1 check-in and returns the new entry id.
func (h *EntriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// Free text is encrypted before it reaches the store.
	if err := h.encryptInput(&in); err != nil {
		http.Error(w, "could not encrypt entry", http.StatusInternalServerError)
		return
	}

	id, err := h.store(r).CreatePending(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *EntriesHandler) encryptInput(in *models.NewEntryInput) error {
	entry := models.MealEntry{FoodDescription: in.FoodDescription, Notes: in.Notes}
	if err := h.encSvc.EncryptEntry(&entry); err != nil {
		return err
	}
	in.FoodDescription = entry.FoodDescription
	in.Notes = entry.Notes
	return nil
}

// Update merges editable fields into an entry, pending or completed.
func (h *EntriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if patch.FoodDescription != nil || patch.Notes != nil {
		entry := models.MealEntry{}
		if patch.FoodDescription != nil {
			entry.FoodDescription = *patch.FoodDescription
		}
		if patch.Notes != nil {
			entry.Notes = *patch.Notes
		}
		if err := h.encSvc.EncryptEntry(&entry); err != nil {
			http.Error(w, "could not encrypt entry", http.StatusInternalServerError)
			return
		}
		if patch.FoodDescription != nil {
			patch.FoodDescription = &entry.FoodDescription
		}
		if patch.Notes != nil {
			patch.Notes = &entry.Notes
		}
	}

	if err := h.store(r).UpdateFields(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete records the phase-2 reflection.
func (h *EntriesHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in models.Phase2Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	entry := models.MealEntry{CompletionNotes: in.CompletionNotes}
	if err := h.encSvc.EncryptEntry(&entry); err != nil {
		http.Error(w, "could not encrypt entry", http.StatusInternalServerError)
		return
	}
	in.CompletionNotes = entry.CompletionNotes

	if err := h.store(r).CompletePhase2(r.Context(), id, in); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an entry. Unknown ids are a no-op, still 204.
func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store(r).Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPending returns outstanding check-ins, most recently started first.
func (h *EntriesHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.store(r).ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.decryptAll(list); err != nil {
		http.Error(w, "could not decrypt entries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListCompleted returns completed check-ins. Optional query params:
// period=week|month|all, or start_date/end_date (YYYY-MM-DD, inclusive).
func (h *EntriesHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	rng, err := completedRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.store(r).ListCompleted(r.Context(), rng)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.decryptAll(list); err != nil {
		http.Error(w, "could not decrypt entries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EntriesHandler) decryptAll(list []models.MealEntry) error {
	for i := range list {
		if err := h.encSvc.DecryptEntry(&list[i]); err != nil {
			return err
		}
	}
	return nil
}

func completedRange(r *http.Request) (*models.DateRange, error) {
	q := r.URL.Query()
	startStr, endStr := q.Get("start_date"), q.Get("end_date")
	if startStr == "" && endStr == "" {
		if p := q.Get("period"); p != "" {
			return stats.ParsePeriod(p).Resolve(time.Now()), nil
		}
		return nil, nil
	}

	rng := &models.DateRange{Start: time.Time{}, End: time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)}
	if startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, errInvalidDate
		}
		rng.Start = start
	}
	if endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, errInvalidDate
		}
		rng.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return rng, nil
}
