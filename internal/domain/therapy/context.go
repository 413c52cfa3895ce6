package therapy

import "github.com/google/uuid"

// Demographics is the slice of the user profile the engine reads. Owned by
// the surrounding application; read-only here.
type Demographics struct {
	AgeGroup           string `json:"age_group,omitempty"`
	CulturalBackground string `json:"cultural_background,omitempty"`
	PreferredLanguage  string `json:"preferred_language,omitempty"`
}

type MentalHealthHistory struct {
	PrimaryConcerns   []string `json:"primary_concerns,omitempty"`
	RiskFactors       []string `json:"risk_factors,omitempty"`
	ProtectiveFactors []string `json:"protective_factors,omitempty"`
}

type CurrentState struct {
	EmotionalState string `json:"emotional_state,omitempty"`
	StressLevel    int    `json:"stress_level"` // 0-10
}

type ActivityPreferences struct {
	PreferredTypes  []string `json:"preferred_types,omitempty"`
	SessionDuration int      `json:"session_duration,omitempty"` // minutes
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
}

type TherapeuticProgress struct {
	// CompletedActivities is ordered, most recent last.
	CompletedActivities []string `json:"completed_activities,omitempty"`
}

// UserContext is everything the recommendation core knows about a user for
// one request.
type UserContext struct {
	UserID       uuid.UUID           `json:"user_id"`
	Demographics Demographics        `json:"demographics"`
	History      MentalHealthHistory `json:"history"`
	State        CurrentState        `json:"state"`
	Preferences  ActivityPreferences `json:"preferences"`
	Progress     TherapeuticProgress `json:"progress"`
}
