package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"mealcheckin/internal/goals"
	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
	"mealcheckin/internal/services"
)

func goalsKey(userID string) string {
	return "user:" + userID + ":user_goals"
}

type GoalsHandler struct {
	kv     kvstore.Store
	encSvc *services.EncryptionService
}

func NewGoalsHandler(kv kvstore.Store, encSvc *services.EncryptionService) *GoalsHandler {
	return &GoalsHandler{kv: kv, encSvc: encSvc}
}

func (h *GoalsHandler) store(r *http.Request) *goals.Store {
	userID := r.Context().Value("userID").(string)
	return goals.NewStore(h.kv, goalsKey(userID))
}

// Get returns the user's goal set plus the fixed catalog of suggestions.
func (h *GoalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, err := h.store(r).Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.encSvc.DecryptGoalSet(&set); err != nil {
		http.Error(w, "could not decrypt goals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"goals":   set,
		"catalog": goals.Catalog,
	})
}

// Toggle selects a catalog goal, or deselects it if already selected.
func (h *GoalsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Goal string `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Goal == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.store(r).ToggleSelected(r.Context(), body.Goal); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCustom appends a free-text intention.
func (h *GoalsHandler) AddCustom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// Trim first: ciphertext of blank text would sail past the store's
	// empty check.
	set := models.GoalSet{Custom: []string{strings.TrimSpace(body.Text)}}
	if err := h.encSvc.EncryptGoalSet(&set); err != nil {
		http.Error(w, "could not encrypt goal", http.StatusInternalServerError)
		return
	}

	if err := h.store(r).AddCustom(r.Context(), set.Custom[0]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCustom deletes the custom intention at the given index.
func (h *GoalsHandler) RemoveCustom(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	if err := h.store(r).RemoveCustom(r.Context(), index); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder replaces the priority order of the selected goals.
func (h *GoalsHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Selected []string `json:"selected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.store(r).ReorderSelected(r.Context(), body.Selected); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
