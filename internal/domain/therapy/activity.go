package therapy

import (
	"time"

	"github.com/google/uuid"
)

// ActivityDescriptor is supplied by the activity registry. The engine never
// authors or mutates these.
type ActivityDescriptor struct {
	Type               string   `json:"type"`
	Category           string   `json:"category"` // breathing | mindfulness | conversation | assessment | crisis | ...
	TherapeuticGoals   []string `json:"therapeutic_goals"`
	CulturalRelevance  float64  `json:"cultural_relevance"`  // 0-10
	EstimatedDurations []int    `json:"estimated_durations"` // minutes, ascending
	DifficultyLevels   []string `json:"difficulty_levels"`
}

// ScoredActivity pairs a candidate with its suitability score.
type ScoredActivity struct {
	Activity  ActivityDescriptor `json:"activity"`
	Score     float64            `json:"score"` // clamped to [0,10]
	Reasoning string             `json:"reasoning"`
}

// ActivityRecommendation is one immutable entry of a recommendation response.
type ActivityRecommendation struct {
	ActivityType       string       `json:"activity_type"`
	Priority           int          `json:"priority"`
	CulturalRelevance  float64      `json:"cultural_relevance"`
	EstimatedDuration  int          `json:"estimated_duration"` // minutes, always ∈ the descriptor's EstimatedDurations
	DifficultyLevel    string       `json:"difficulty_level"`
	PersonalizedReason string       `json:"personalized_reason"`
	ExpectedOutcomes   []string     `json:"expected_outcomes"`
	Urgency            UrgencyLevel `json:"urgency"`
}

type RecommendationRequest struct {
	UserContext UserContext `json:"user_context"`

	// EmotionalState overrides the profile's current state when set.
	EmotionalState string   `json:"emotional_state,omitempty"`
	RecentTriggers []string `json:"recent_triggers,omitempty"`

	UrgencyLevel        UrgencyLevel `json:"urgency_level,omitempty"`
	TimeAvailable       int          `json:"time_available,omitempty"` // minutes
	SpecificGoals       []string     `json:"specific_goals,omitempty"`
	PreferredCategories []string     `json:"preferred_categories,omitempty"`
	AvoidActivities     []string     `json:"avoid_activities,omitempty"`
}

type RecommendationResponse struct {
	Primary     []ActivityRecommendation `json:"primary"`
	Alternative []ActivityRecommendation `json:"alternative"`
	Emergency   []ActivityRecommendation `json:"emergency,omitempty"`
	Insights    []string                 `json:"insights"`
	Reasoning   string                   `json:"reasoning"`
	Confidence  float64                  `json:"confidence"` // 0-1
}

// ActivityResult is one finished engagement. The engine keeps a bounded
// in-process window for scoring recency; rows are also persisted when a
// result repo is wired.
type ActivityResult struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id,omitempty"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID            uuid.UUID `gorm:"type:uuid;index" json:"session_id,omitempty"`
	ActivityType         string    `gorm:"column:activity_type;not null" json:"activity_type"`
	EngagementScore      float64   `gorm:"column:engagement_score" json:"engagement_score"`
	CompletionPercentage float64   `gorm:"column:completion_percentage" json:"completion_percentage"`
	MoodBefore           string    `gorm:"column:mood_before" json:"mood_before,omitempty"`
	MoodAfter            string    `gorm:"column:mood_after" json:"mood_after,omitempty"`
	RecordedAt           time.Time `gorm:"column:recorded_at;not null;index" json:"recorded_at"`
}

func (ActivityResult) TableName() string { return "activity_result" }
