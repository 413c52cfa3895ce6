package recommendation

import (
	"context"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

// builtinActivities is the default catalog used for local runs and tests.
// Production deployments point the engine at the platform's activity service
// instead.
var builtinActivities = []types.ActivityDescriptor{
	{
		Type:               "breathing_exercise",
		Category:           "breathing",
		TherapeuticGoals:   []string{"anxiety_management", "stress_reduction", "grounding"},
		CulturalRelevance:  8,
		EstimatedDurations: []int{3, 5, 10},
		DifficultyLevels:   []string{"beginner", "intermediate"},
	},
	{
		Type:               "grounding_technique",
		Category:           "mindfulness",
		TherapeuticGoals:   []string{"grounding", "immediate_stress_relief", "anxiety_management"},
		CulturalRelevance:  7,
		EstimatedDurations: []int{5, 10},
		DifficultyLevels:   []string{"beginner"},
	},
	{
		Type:               "guided_meditation",
		Category:           "mindfulness",
		TherapeuticGoals:   []string{"relaxation", "self_awareness", "stress_reduction"},
		CulturalRelevance:  9,
		EstimatedDurations: []int{10, 15, 20},
		DifficultyLevels:   []string{"beginner", "intermediate", "advanced"},
	},
	{
		Type:               "progressive_relaxation",
		Category:           "breathing",
		TherapeuticGoals:   []string{"relaxation", "stress_reduction", "sleep_hygiene"},
		CulturalRelevance:  7,
		EstimatedDurations: []int{10, 15},
		DifficultyLevels:   []string{"beginner", "intermediate"},
	},
	{
		Type:               "journaling",
		Category:           "reflection",
		TherapeuticGoals:   []string{"self_awareness", "emotional_regulation", "mood_enhancement"},
		CulturalRelevance:  6,
		EstimatedDurations: []int{10, 15, 20},
		DifficultyLevels:   []string{"beginner", "intermediate"},
	},
	{
		Type:               "gratitude_practice",
		Category:           "reflection",
		TherapeuticGoals:   []string{"mood_enhancement", "positivity", "general_wellbeing"},
		CulturalRelevance:  8,
		EstimatedDurations: []int{5, 10},
		DifficultyLevels:   []string{"beginner"},
	},
	{
		Type:               "guided_conversation",
		Category:           "conversation",
		TherapeuticGoals:   []string{"social_connection", "emotional_regulation", "self_awareness"},
		CulturalRelevance:  8,
		EstimatedDurations: []int{15, 20, 30},
		DifficultyLevels:   []string{"beginner", "intermediate"},
	},
	{
		Type:               "behavioral_activation",
		Category:           "conversation",
		TherapeuticGoals:   []string{"behavioral_activation", "mood_enhancement"},
		CulturalRelevance:  6,
		EstimatedDurations: []int{15, 25},
		DifficultyLevels:   []string{"intermediate", "advanced"},
	},
	{
		Type:               "self_assessment",
		Category:           "assessment",
		TherapeuticGoals:   []string{"self_awareness", "reflection"},
		CulturalRelevance:  5,
		EstimatedDurations: []int{10, 15},
		DifficultyLevels:   []string{"beginner", "intermediate"},
	},
	{
		Type:               "crisis_grounding",
		Category:           "crisis",
		TherapeuticGoals:   []string{"immediate_stress_relief", "crisis_stabilization", "grounding"},
		CulturalRelevance:  8,
		EstimatedDurations: []int{3, 5},
		DifficultyLevels:   []string{"beginner"},
	},
	{
		Type:               "crisis_breathing",
		Category:           "crisis",
		TherapeuticGoals:   []string{"immediate_stress_relief", "calming"},
		CulturalRelevance:  8,
		EstimatedDurations: []int{2, 5},
		DifficultyLevels:   []string{"beginner"},
	},
}

// StaticCatalog is an in-process Registry backed by the builtin activity
// list.
type StaticCatalog struct {
	activities []types.ActivityDescriptor
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{activities: builtinActivities}
}

// NewStaticCatalogWith builds a catalog over a caller-supplied activity set.
func NewStaticCatalogWith(activities []types.ActivityDescriptor) *StaticCatalog {
	return &StaticCatalog{activities: activities}
}

func (c *StaticCatalog) GetSuitableActivities(_ context.Context, _ types.UserContext, filters ActivityFilters) ([]types.ActivityDescriptor, error) {
	out := make([]types.ActivityDescriptor, 0, len(c.activities))
	for _, activity := range c.activities {
		if contains(filters.AvoidTypes, activity.Type) {
			continue
		}
		if filters.MaxDuration > 0 && !anyWithin(activity.EstimatedDurations, filters.MaxDuration) {
			continue
		}
		out = append(out, activity)
	}
	return out, nil
}

func (c *StaticCatalog) GetCrisisActivities(_ context.Context, _ types.UserContext) ([]types.ActivityDescriptor, error) {
	out := make([]types.ActivityDescriptor, 0, 2)
	for _, activity := range c.activities {
		if activity.Category == "crisis" {
			out = append(out, activity)
		}
	}
	return out, nil
}

func anyWithin(durations []int, max int) bool {
	for _, d := range durations {
		if d <= max {
			return true
		}
	}
	return false
}
