package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"mealcheckin/internal/entries"
	"mealcheckin/internal/insights"
	"mealcheckin/internal/kvstore"
	"mealcheckin/internal/models"
	"mealcheckin/internal/notify"
	"mealcheckin/internal/services"
	"mealcheckin/internal/stats"
)

type InsightsHandler struct {
	kv        kvstore.Store
	reminders notify.Scheduler
	encSvc    *services.EncryptionService
	chat      *insights.Client
}

func NewInsightsHandler(kv kvstore.Store, reminders notify.Scheduler, encSvc *services.EncryptionService, chat *insights.Client) *InsightsHandler {
	return &InsightsHandler{kv: kv, reminders: reminders, encSvc: encSvc, chat: chat}
}

type summaryResponse struct {
	Period                 string              `json:"period"`
	DateRange              string              `json:"date_range"`
	TotalEntries           int                 `json:"total_entries"`
	StreakDays             int                 `json:"streak_days"`
	AverageEnergyBoost     float64             `json:"average_energy_boost"`
	TopEnergyBoosts        []models.MealEntry  `json:"top_energy_boosts"`
	MotivationDistribution map[string]int      `json:"motivation_distribution"`
	TopMoodShifts          []stats.MoodShift   `json:"top_mood_shifts"`
	EnergySeries           []stats.SeriesPoint `json:"energy_series"`
	HungerFullnessSeries   []stats.SeriesPoint `json:"hunger_fullness_series"`
	EatingStyleSeries      []stats.SeriesPoint `json:"eating_style_series"`
}

// Summary computes every insights-screen aggregate for one period in a
// single response. Nothing is cached; each call recomputes from a fresh
// collection snapshot.
func (h *InsightsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	store := entries.NewStore(h.kv, entriesKey(userID), h.reminders)

	now := time.Now()
	period := stats.ParsePeriod(r.URL.Query().Get("period"))

	allCompleted, err := store.ListCompleted(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	for i := range allCompleted {
		if err := h.encSvc.DecryptEntry(&allCompleted[i]); err != nil {
			http.Error(w, "could not decrypt entries", http.StatusInternalServerError)
			return
		}
	}

	filtered := allCompleted
	if rng := period.Resolve(now); rng != nil {
		filtered = filtered[:0:0]
		for _, e := range allCompleted {
			if rng.Contains(*e.Phase2CompletedAt) {
				filtered = append(filtered, e)
			}
		}
	}

	resp := summaryResponse{
		Period:                 string(period),
		DateRange:              stats.RangeLabel(period, now, allCompleted),
		TotalEntries:           len(filtered),
		StreakDays:             stats.Streak(allCompleted, now),
		AverageEnergyBoost:     stats.AverageEnergyBoost(filtered),
		TopEnergyBoosts:        stats.TopEnergyBoosts(filtered, 3),
		MotivationDistribution: stats.MotivationDistribution(filtered),
		TopMoodShifts:          stats.TopMoodShifts(filtered, 3),
		EnergySeries:           stats.EnergySeries(filtered),
		HungerFullnessSeries:   stats.HungerFullnessSeries(filtered),
		EatingStyleSeries:      stats.EatingStyleSeries(filtered),
	}
	writeJSON(w, http.StatusOK, resp)
}

// Chat relays a conversation to the support chatbot.
func (h *InsightsHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.chat.Enabled() {
		http.Error(w, "chat is not configured", http.StatusServiceUnavailable)
		return
	}
	var body struct {
		Messages []insights.Message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) == 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	reply, err := h.chat.Complete(r.Context(), body.Messages)
	if err != nil {
		http.Error(w, "chat completion failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Generate produces one reflection over the user's completed entries.
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !h.chat.Enabled() {
		http.Error(w, "chat is not configured", http.StatusServiceUnavailable)
		return
	}
	userID := r.Context().Value("userID").(string)
	store := entries.NewStore(h.kv, entriesKey(userID), h.reminders)

	completed, err := store.ListCompleted(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	for i := range completed {
		if err := h.encSvc.DecryptEntry(&completed[i]); err != nil {
			http.Error(w, "could not decrypt entries", http.StatusInternalServerError)
			return
		}
	}

	text, err := h.chat.GenerateInsight(r.Context(), completed)
	if err != nil {
		http.Error(w, "insight generation failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}
