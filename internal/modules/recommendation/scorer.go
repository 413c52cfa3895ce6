package recommendation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/mindbridge-backend/internal/config"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

// stateActivityBonus is the static emotional-state × activity-type bonus
// table. Missing entries score the default bonus of 1.
var stateActivityBonus = map[string]map[string]float64{
	"anxious": {
		"breathing_exercise":  3,
		"grounding_technique": 3,
		"guided_meditation":   2,
		"body_scan":           2,
	},
	"stressed": {
		"breathing_exercise":     3,
		"progressive_relaxation": 2,
		"guided_meditation":      2,
	},
	"depressed": {
		"behavioral_activation": 3,
		"gratitude_practice":    2,
		"guided_conversation":   2,
	},
	"overwhelmed": {
		"grounding_technique": 3,
		"breathing_exercise":  2,
		"guided_meditation":   2,
	},
	"angry": {
		"progressive_relaxation": 3,
		"breathing_exercise":     2,
		"physical_release":       2,
	},
	"lonely": {
		"guided_conversation":      3,
		"self_compassion_practice": 2,
	},
	"confused": {
		"journaling":          2,
		"guided_conversation": 2,
		"self_assessment":     2,
	},
}

// goalSynonyms links registry goal tags to needs vocabulary. Matching is
// bidirectional: a goal matches a need if either lists the other.
var goalSynonyms = map[string][]string{
	"anxiety_management":      {"calming", "relaxation", "grounding"},
	"stress_reduction":        {"relaxation", "calming", "stress_relief"},
	"immediate_stress_relief": {"stress_relief", "grounding", "calming"},
	"mood_enhancement":        {"positivity", "mood_lift", "behavioral_activation"},
	"emotional_regulation":    {"self_awareness", "mindfulness"},
	"sleep_hygiene":           {"relaxation", "wind_down"},
	"social_connection":       {"social_skills", "communication"},
	"grounding":               {"mindfulness", "present_moment"},
	"self_awareness":          {"reflection", "journaling"},
}

const (
	minScore = 0.0
	maxScore = 10.0
)

// ActivityScorer assigns a 0-10 suitability score to candidate activities.
// Stateless; safe for concurrent use.
type ActivityScorer struct {
	weights config.ScoringWeights
}

func NewActivityScorer(weights config.ScoringWeights) *ActivityScorer {
	return &ActivityScorer{weights: weights}
}

// Score scores every candidate and returns them sorted by score descending.
// The sort is stable: ties keep the registry's candidate order.
func (s *ActivityScorer) Score(candidates []types.ActivityDescriptor, analysis types.NeedsAnalysis, req types.RecommendationRequest) []types.ScoredActivity {
	scored := make([]types.ScoredActivity, 0, len(candidates))
	for _, candidate := range candidates {
		score, reasoning := s.scoreOne(candidate, analysis, req)
		scored = append(scored, types.ScoredActivity{
			Activity:  candidate,
			Score:     score,
			Reasoning: reasoning,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func (s *ActivityScorer) scoreOne(activity types.ActivityDescriptor, analysis types.NeedsAnalysis, req types.RecommendationRequest) (float64, string) {
	w := s.weights
	var reasons []string

	score := activity.CulturalRelevance * w.CulturalRelevance

	if v := needsAlignment(activity.TherapeuticGoals, analysis.UrgentNeeds); v > 0 {
		score += v * w.UrgentNeeds
		reasons = append(reasons, "addresses urgent needs")
	}
	if v := needsAlignment(activity.TherapeuticGoals, analysis.PrimaryNeeds); v > 0 {
		score += v * w.PrimaryNeeds
		reasons = append(reasons, "matches primary needs")
	}
	if v := needsAlignment(activity.TherapeuticGoals, analysis.SecondaryNeeds); v > 0 {
		score += v * w.SecondaryNeeds
		reasons = append(reasons, "supports secondary needs")
	}

	score += stateBonus(analysis.EmotionalState, activity.Type)

	if v := riskBonus(analysis.RiskLevel, activity.Category); v > 0 {
		score += v
		reasons = append(reasons, fmt.Sprintf("suited to %s risk", analysis.RiskLevel))
	}

	if analysis.TimeConstraints > 0 && fitsDuration(activity.EstimatedDurations, analysis.TimeConstraints, w.DurationFitWindowMin) {
		score += w.DurationFitBonus
		reasons = append(reasons, "fits available time")
	}

	if contains(req.UserContext.Preferences.PreferredTypes, activity.Type) {
		score += w.PreferredTypeBonus
		reasons = append(reasons, "preferred activity type")
	}
	if contains(req.PreferredCategories, activity.Category) {
		score += w.PreferredCategoryBonus
		reasons = append(reasons, "preferred category")
	}

	if len(req.SpecificGoals) > 0 {
		if v := needsAlignment(activity.TherapeuticGoals, req.SpecificGoals); v > 0 {
			score += v * w.SpecificGoals
			reasons = append(reasons, "aligned with stated goals")
		}
	}

	if recentlyCompleted(req.UserContext.Progress.CompletedActivities, activity.Type, w.RecencyWindow) {
		score -= w.RecencyPenalty
		reasons = append(reasons, "recently completed")
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	reasoning := "general suitability"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}
	return score, reasoning
}

// needsAlignment is the fraction of needs covered by the activity's goals.
// A goal covers a need on substring containment in either direction or via
// the synonym table.
func needsAlignment(goals, needs []string) float64 {
	if len(needs) == 0 {
		return 0
	}
	matched := 0
	for _, goal := range goals {
		for _, need := range needs {
			if goalMatchesNeed(goal, need) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(needs))
}

func goalMatchesNeed(goal, need string) bool {
	g := strings.ToLower(goal)
	n := strings.ToLower(need)
	if strings.Contains(g, n) || strings.Contains(n, g) {
		return true
	}
	for _, syn := range goalSynonyms[g] {
		if syn == n {
			return true
		}
	}
	for _, syn := range goalSynonyms[n] {
		if syn == g {
			return true
		}
	}
	return false
}

func stateBonus(state, activityType string) float64 {
	if byType, ok := stateActivityBonus[state]; ok {
		if v, ok := byType[activityType]; ok {
			return v
		}
	}
	return 1
}

func riskBonus(risk types.RiskLevel, category string) float64 {
	switch risk {
	case types.RiskSevere:
		if category == "crisis" {
			return 3
		}
	case types.RiskHigh:
		if category == "crisis" || category == "mindfulness" {
			return 2
		}
	case types.RiskMedium:
		if category != "assessment" {
			return 1
		}
	}
	return 0
}

func fitsDuration(durations []int, available, windowMin int) bool {
	for _, d := range durations {
		diff := d - available
		if diff < 0 {
			diff = -diff
		}
		if diff <= windowMin {
			return true
		}
	}
	return false
}

func recentlyCompleted(completed []string, activityType string, window int) bool {
	if window <= 0 || len(completed) == 0 {
		return false
	}
	start := len(completed) - window
	if start < 0 {
		start = 0
	}
	for _, t := range completed[start:] {
		if t == activityType {
			return true
		}
	}
	return false
}
