package recommendation

import (
	"fmt"
	"math"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

const (
	primaryCountDefault   = 3
	primaryCountImmediate = 2
	alternativeCount      = 3
)

// stateReasonPhrases personalize the recommendation reason when no urgent
// need names one.
var stateReasonPhrases = map[string]string{
	"anxious":     "chosen to help settle anxious feelings",
	"stressed":    "chosen to release built-up stress",
	"depressed":   "chosen to gently lift your mood",
	"overwhelmed": "chosen to help you regain a sense of control",
	"angry":       "chosen to cool down strong emotions",
	"lonely":      "chosen to nurture a sense of connection",
	"confused":    "chosen to bring some clarity",
}

// RecommendationSelector partitions scored activities into primary,
// alternative, and emergency sets and computes response confidence.
// Stateless; safe for concurrent use.
type RecommendationSelector struct{}

func NewRecommendationSelector() *RecommendationSelector {
	return &RecommendationSelector{}
}

// Select builds the full response from the scored candidates. crisis is the
// externally curated crisis subset, consulted only at immediate urgency.
func (s *RecommendationSelector) Select(scored []types.ScoredActivity, crisis []types.ActivityDescriptor, analysis types.NeedsAnalysis, req types.RecommendationRequest) types.RecommendationResponse {
	primary := s.selectPrimary(scored, analysis, req)
	alternative := s.selectAlternatives(scored, primary, req)

	resp := types.RecommendationResponse{
		Primary:     primary,
		Alternative: alternative,
		Insights:    buildInsights(analysis),
		Reasoning:   buildReasoning(analysis, len(primary)),
		Confidence:  confidence(analysis, req, primary),
	}
	if req.UrgencyLevel == types.UrgencyImmediate {
		resp.Emergency = s.selectEmergency(crisis, analysis)
	}
	return resp
}

func (s *RecommendationSelector) selectPrimary(scored []types.ScoredActivity, analysis types.NeedsAnalysis, req types.RecommendationRequest) []types.ActivityRecommendation {
	n := primaryCountDefault
	if req.UrgencyLevel == types.UrgencyImmediate {
		n = primaryCountImmediate
	}
	if n > len(scored) {
		n = len(scored)
	}

	out := make([]types.ActivityRecommendation, 0, n)
	for _, sa := range scored[:n] {
		out = append(out, types.ActivityRecommendation{
			ActivityType:       sa.Activity.Type,
			Priority:           int(math.Ceil(sa.Score)),
			CulturalRelevance:  sa.Activity.CulturalRelevance,
			EstimatedDuration:  pickDuration(sa.Activity.EstimatedDurations, analysis.TimeConstraints),
			DifficultyLevel:    pickDifficulty(sa.Activity.DifficultyLevels, analysis),
			PersonalizedReason: personalizedReason(analysis),
			ExpectedOutcomes:   firstN(sa.Activity.TherapeuticGoals, 3),
			Urgency:            req.UrgencyLevel,
		})
	}
	return out
}

func (s *RecommendationSelector) selectAlternatives(scored []types.ScoredActivity, primary []types.ActivityRecommendation, req types.RecommendationRequest) []types.ActivityRecommendation {
	taken := make(map[string]bool, len(primary))
	for _, p := range primary {
		taken[p.ActivityType] = true
	}

	out := make([]types.ActivityRecommendation, 0, alternativeCount)
	for _, sa := range scored {
		if len(out) == alternativeCount {
			break
		}
		if taken[sa.Activity.Type] {
			continue
		}
		taken[sa.Activity.Type] = true
		out = append(out, types.ActivityRecommendation{
			ActivityType:       sa.Activity.Type,
			Priority:           int(math.Ceil(sa.Score * 0.8)),
			CulturalRelevance:  sa.Activity.CulturalRelevance,
			EstimatedDuration:  pickDuration(sa.Activity.EstimatedDurations, 0),
			DifficultyLevel:    "beginner",
			PersonalizedReason: "a gentler alternative if the first suggestions don't feel right",
			ExpectedOutcomes:   firstN(sa.Activity.TherapeuticGoals, 3),
			Urgency:            types.UrgencyMedium,
		})
	}
	return out
}

// selectEmergency maps the curated crisis activities as-is: no scoring, top
// priority, always beginner.
func (s *RecommendationSelector) selectEmergency(crisis []types.ActivityDescriptor, analysis types.NeedsAnalysis) []types.ActivityRecommendation {
	out := make([]types.ActivityRecommendation, 0, len(crisis))
	for _, activity := range crisis {
		out = append(out, types.ActivityRecommendation{
			ActivityType:       activity.Type,
			Priority:           10,
			CulturalRelevance:  activity.CulturalRelevance,
			EstimatedDuration:  pickDuration(activity.EstimatedDurations, analysis.TimeConstraints),
			DifficultyLevel:    "beginner",
			PersonalizedReason: "immediate support for how you're feeling right now",
			ExpectedOutcomes:   firstN(activity.TherapeuticGoals, 3),
			Urgency:            types.UrgencyImmediate,
		})
	}
	return out
}

// pickDuration returns the element nearest to wanted, or the middle element
// when wanted is unset. The result is always a member of durations.
func pickDuration(durations []int, wanted int) int {
	if len(durations) == 0 {
		return 0
	}
	if wanted <= 0 {
		return durations[len(durations)/2]
	}
	best := durations[0]
	bestDiff := absInt(durations[0] - wanted)
	for _, d := range durations[1:] {
		if diff := absInt(d - wanted); diff < bestDiff {
			best = d
			bestDiff = diff
		}
	}
	return best
}

func pickDifficulty(offered []string, analysis types.NeedsAnalysis) string {
	if analysis.StressLevel > 7 || analysis.RiskLevel == types.RiskHigh {
		return "beginner"
	}
	if contains(offered, "intermediate") {
		return "intermediate"
	}
	if len(offered) > 0 {
		return offered[0]
	}
	return "beginner"
}

func personalizedReason(analysis types.NeedsAnalysis) string {
	if len(analysis.UrgentNeeds) > 0 {
		return fmt.Sprintf("recommended for %s right now", humanizeTag(analysis.UrgentNeeds[0]))
	}
	if phrase, ok := stateReasonPhrases[analysis.EmotionalState]; ok {
		return phrase
	}
	if len(analysis.PrimaryNeeds) > 0 {
		return fmt.Sprintf("recommended to support %s", humanizeTag(analysis.PrimaryNeeds[0]))
	}
	return "recommended to support your overall wellbeing"
}

func buildInsights(analysis types.NeedsAnalysis) []string {
	insights := []string{}
	if len(analysis.UrgentNeeds) > 0 {
		insights = append(insights, fmt.Sprintf("Immediate focus: %s.", humanizeTag(analysis.UrgentNeeds[0])))
	}
	if len(analysis.PrimaryNeeds) > 0 {
		insights = append(insights, fmt.Sprintf("Main themes: %s.", humanizeTags(firstN(analysis.PrimaryNeeds, 3))))
	}
	if analysis.RiskLevel == types.RiskHigh || analysis.RiskLevel == types.RiskSevere {
		insights = append(insights, "Elevated stress signals detected; shorter, gentler activities are prioritized.")
	}
	if len(analysis.CulturalConsiderations) > 0 {
		insights = append(insights, fmt.Sprintf("Recommendations weigh cultural context: %s.", humanizeTags(analysis.CulturalConsiderations)))
	}
	return insights
}

func buildReasoning(analysis types.NeedsAnalysis, primaryCount int) string {
	return fmt.Sprintf(
		"Selected %d activities against %d primary and %d urgent needs (risk level %s, emotional state %q).",
		primaryCount, len(analysis.PrimaryNeeds), len(analysis.UrgentNeeds),
		analysis.RiskLevel, analysis.EmotionalState,
	)
}

func confidence(analysis types.NeedsAnalysis, req types.RecommendationRequest, primary []types.ActivityRecommendation) float64 {
	c := 0.5
	if analysis.EmotionalState != "" && analysis.EmotionalState != "neutral" {
		c += 0.2
	}
	if len(analysis.PrimaryNeeds) > 0 {
		c += 0.2
	}
	if len(req.UserContext.Progress.CompletedActivities) > 3 {
		c += 0.1
	}
	if len(primary) > 0 {
		sum := 0
		for _, p := range primary {
			sum += p.Priority
		}
		if float64(sum)/float64(len(primary)) > 7 {
			c += 0.1
		}
	}
	if c > 1 {
		c = 1
	}
	return c
}

func humanizeTag(tag string) string {
	out := make([]rune, 0, len(tag))
	for _, r := range tag {
		if r == '_' {
			out = append(out, ' ')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func humanizeTags(tags []string) string {
	s := ""
	for i, t := range tags {
		if i > 0 {
			s += ", "
		}
		s += humanizeTag(t)
	}
	return s
}

func firstN(list []string, n int) []string {
	if len(list) <= n {
		return append([]string{}, list...)
	}
	return append([]string{}, list[:n]...)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
