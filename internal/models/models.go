package models

import "time"

// Entry status. An entry is pending between the pre-meal check-in and the
// post-meal reflection, and completed once both halves are recorded.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Meal types as stored by the mobile client.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
)

// Answers to the phase-2 "did this meal serve your goal?" question.
const (
	GoalFulfilledYes    = "Yes"
	GoalFulfilledPartly = "Partly"
	GoalFulfilledNo     = "No"
)

// MealEntry is one meal check-in. The JSON field names reproduce the shape
// the mobile app has always persisted, mixed casing included, so existing
// device exports remain readable.
type MealEntry struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	MealType        string    `json:"mealType"`
	FoodDescription string    `json:"foodDescription"`
	Emotions        []string  `json:"emotions"`
	EnergyLevel     int       `json:"energyLevel"`
	HungerLevel     int       `json:"hungerLevel"`
	Motivations     []string  `json:"motivations"`
	Notes           string    `json:"notes,omitempty"`
	ReminderMinutes int       `json:"reminder_minutes"`

	Phase1CompletedAt time.Time `json:"phase1_completed_at"`
	Status            string    `json:"status"`

	Mindfulness       int        `json:"mindfulness,omitempty"`
	EatingSpeed       int        `json:"eatingSpeed,omitempty"`
	Energy            int        `json:"energy,omitempty"`
	Fullness          int        `json:"fullness,omitempty"`
	EmotionsAfter     []string   `json:"emotionsAfter,omitempty"`
	GoalFulfilled     string     `json:"goalFulfilled,omitempty"`
	CompletionNotes   string     `json:"completionNotes,omitempty"`
	Phase2CompletedAt *time.Time `json:"phase2_completed_at,omitempty"`
}

// Pending reports whether the post-meal reflection is still outstanding.
func (e MealEntry) Pending() bool { return e.Status == StatusPending }

// EnergyBoost is post-meal energy minus pre-meal energy. A zero on either
// side counts as "not recorded" and yields a zero boost, matching how the
// app has always computed it.
func (e MealEntry) EnergyBoost() int {
	if e.Energy == 0 || e.EnergyLevel == 0 {
		return 0
	}
	return e.Energy - e.EnergyLevel
}

// NewEntryInput is the finished pre-meal check-in draft. The client builds
// it up across the check-in steps and submits it whole; nothing is stored
// until then.
type NewEntryInput struct {
	Date            time.Time `json:"date"`
	MealType        string    `json:"mealType"`
	FoodDescription string    `json:"foodDescription"`
	Emotions        []string  `json:"emotions"`
	EnergyLevel     int       `json:"energyLevel"`
	HungerLevel     int       `json:"hungerLevel"`
	Motivations     []string  `json:"motivations"`
	Notes           string    `json:"notes"`
	ReminderMinutes int       `json:"reminder_minutes"`
}

// EntryPatch is a partial update of the user-editable fields. Nil means
// "leave as is".
type EntryPatch struct {
	Date            *time.Time `json:"date,omitempty"`
	MealType        *string    `json:"mealType,omitempty"`
	FoodDescription *string    `json:"foodDescription,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// Phase2Input carries the post-meal reflection.
type Phase2Input struct {
	Mindfulness     int      `json:"mindfulness"`
	EatingSpeed     int      `json:"eatingSpeed"`
	Energy          int      `json:"energy"`
	Fullness        int      `json:"fullness"`
	EmotionsAfter   []string `json:"emotionsAfter"`
	GoalFulfilled   string   `json:"goalFulfilled"`
	CompletionNotes string   `json:"completionNotes"`
}

// GoalSet holds the user's selected intentions, ordered by priority (the
// first three get medal treatment in the app), plus free-text custom ones.
type GoalSet struct {
	Selected []string `json:"selected"`
	Custom   []string `json:"custom"`
}

// User is an account record. Email is stored encrypted when field
// encryption is configured; the blind index makes it searchable.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	EmailBlindIndex string    `json:"email_blind_index,omitempty"`
	PasswordHash    string    `json:"password_hash"`
	CreatedAt       time.Time `json:"created_at"`
}

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ClampScale bounds a 0-10 rating.
func ClampScale(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
