package recommendation

import (
	"testing"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

func scoredFixture() []types.ScoredActivity {
	out := []types.ScoredActivity{}
	for i, a := range builtinActivities {
		out = append(out, types.ScoredActivity{
			Activity: a,
			Score:    float64(10 - i), // already descending
		})
	}
	return out
}

func TestSelect_DefaultUrgencyPicksThreePrimary(t *testing.T) {
	s := NewRecommendationSelector()
	resp := s.Select(scoredFixture(), nil, types.NeedsAnalysis{}, types.RecommendationRequest{})

	if len(resp.Primary) != 3 {
		t.Fatalf("expected 3 primary, got %d", len(resp.Primary))
	}
	if len(resp.Emergency) != 0 {
		t.Fatalf("expected no emergency set at default urgency, got %d", len(resp.Emergency))
	}
}

func TestSelect_ImmediateUrgencyPicksTwoPrimaryPlusEmergency(t *testing.T) {
	s := NewRecommendationSelector()
	crisis := []types.ActivityDescriptor{builtinActivities[9], builtinActivities[10]}
	req := types.RecommendationRequest{UrgencyLevel: types.UrgencyImmediate}

	resp := s.Select(scoredFixture(), crisis, types.NeedsAnalysis{}, req)

	if len(resp.Primary) != 2 {
		t.Fatalf("expected 2 primary at immediate urgency, got %d", len(resp.Primary))
	}
	if len(resp.Emergency) != 2 {
		t.Fatalf("expected 2 emergency entries, got %d", len(resp.Emergency))
	}
	for _, e := range resp.Emergency {
		if e.Priority != 10 {
			t.Fatalf("expected emergency priority 10, got %d", e.Priority)
		}
		if e.DifficultyLevel != "beginner" {
			t.Fatalf("expected emergency difficulty beginner, got %q", e.DifficultyLevel)
		}
		if e.Urgency != types.UrgencyImmediate {
			t.Fatalf("expected emergency urgency immediate, got %q", e.Urgency)
		}
	}
}

func TestSelect_AlternativesNeverRepeatPrimaryTypes(t *testing.T) {
	s := NewRecommendationSelector()
	resp := s.Select(scoredFixture(), nil, types.NeedsAnalysis{}, types.RecommendationRequest{})

	primaryTypes := map[string]bool{}
	for _, p := range resp.Primary {
		primaryTypes[p.ActivityType] = true
	}
	if len(resp.Alternative) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(resp.Alternative))
	}
	for _, alt := range resp.Alternative {
		if primaryTypes[alt.ActivityType] {
			t.Fatalf("alternative %s duplicates a primary type", alt.ActivityType)
		}
	}
}

func TestSelect_EstimatedDurationIsMemberOfOffered(t *testing.T) {
	s := NewRecommendationSelector()
	analysis := types.NeedsAnalysis{TimeConstraints: 12}
	resp := s.Select(scoredFixture(), nil, analysis, types.RecommendationRequest{})

	offered := map[string][]int{}
	for _, a := range builtinActivities {
		offered[a.Type] = a.EstimatedDurations
	}
	check := func(recs []types.ActivityRecommendation) {
		for _, r := range recs {
			found := false
			for _, d := range offered[r.ActivityType] {
				if d == r.EstimatedDuration {
					found = true
				}
			}
			if !found {
				t.Fatalf("duration %d of %s is not in its offered set %v",
					r.EstimatedDuration, r.ActivityType, offered[r.ActivityType])
			}
		}
	}
	check(resp.Primary)
	check(resp.Alternative)
}

func TestPickDuration(t *testing.T) {
	durations := []int{3, 5, 10}

	if got := pickDuration(durations, 9); got != 10 {
		t.Fatalf("expected nearest 10, got %d", got)
	}
	if got := pickDuration(durations, 0); got != 5 {
		t.Fatalf("expected middle element 5 when unconstrained, got %d", got)
	}
	if got := pickDuration(nil, 10); got != 0 {
		t.Fatalf("expected 0 for empty durations, got %d", got)
	}
	// Equidistant keeps the earlier (shorter) entry.
	if got := pickDuration([]int{5, 15}, 10); got != 5 {
		t.Fatalf("expected tie to keep first candidate, got %d", got)
	}
}

func TestPickDifficulty(t *testing.T) {
	offered := []string{"beginner", "intermediate", "advanced"}

	if got := pickDifficulty(offered, types.NeedsAnalysis{StressLevel: 8}); got != "beginner" {
		t.Fatalf("expected beginner under high stress, got %q", got)
	}
	if got := pickDifficulty(offered, types.NeedsAnalysis{RiskLevel: types.RiskHigh}); got != "beginner" {
		t.Fatalf("expected beginner at high risk, got %q", got)
	}
	if got := pickDifficulty(offered, types.NeedsAnalysis{}); got != "intermediate" {
		t.Fatalf("expected intermediate when offered, got %q", got)
	}
	if got := pickDifficulty([]string{"advanced"}, types.NeedsAnalysis{}); got != "advanced" {
		t.Fatalf("expected first offered level, got %q", got)
	}
	if got := pickDifficulty(nil, types.NeedsAnalysis{}); got != "beginner" {
		t.Fatalf("expected beginner fallback, got %q", got)
	}
}

func TestConfidence_BoundedAndAdditive(t *testing.T) {
	s := NewRecommendationSelector()

	// Bare request: base confidence only.
	resp := s.Select(nil, nil, types.NeedsAnalysis{}, types.RecommendationRequest{})
	if resp.Confidence != 0.5 {
		t.Fatalf("expected base confidence 0.5, got %v", resp.Confidence)
	}

	// Everything known: clamped to 1.
	analysis := types.NeedsAnalysis{
		EmotionalState: "anxious",
		PrimaryNeeds:   []string{"anxiety_management"},
	}
	req := types.RecommendationRequest{
		UserContext: types.UserContext{
			Progress: types.TherapeuticProgress{
				CompletedActivities: []string{"a", "b", "c", "d"},
			},
		},
	}
	resp = s.Select(scoredFixture(), nil, analysis, req)
	if resp.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", resp.Confidence)
	}
}

func TestPersonalizedReason_PriorityChain(t *testing.T) {
	urgent := types.NeedsAnalysis{
		UrgentNeeds:    []string{"immediate_stress_relief"},
		EmotionalState: "anxious",
	}
	if got := personalizedReason(urgent); got != "recommended for immediate stress relief right now" {
		t.Fatalf("expected urgent-need reason, got %q", got)
	}

	stateOnly := types.NeedsAnalysis{EmotionalState: "lonely"}
	if got := personalizedReason(stateOnly); got != stateReasonPhrases["lonely"] {
		t.Fatalf("expected state phrase, got %q", got)
	}

	primaryOnly := types.NeedsAnalysis{PrimaryNeeds: []string{"sleep_hygiene"}}
	if got := personalizedReason(primaryOnly); got != "recommended to support sleep hygiene" {
		t.Fatalf("expected primary-need reason, got %q", got)
	}

	if got := personalizedReason(types.NeedsAnalysis{}); got != "recommended to support your overall wellbeing" {
		t.Fatalf("expected generic fallback, got %q", got)
	}
}

func TestSelect_FewerCandidatesThanRequested(t *testing.T) {
	s := NewRecommendationSelector()
	scored := scoredFixture()[:1]

	resp := s.Select(scored, nil, types.NeedsAnalysis{}, types.RecommendationRequest{})
	if len(resp.Primary) != 1 {
		t.Fatalf("expected 1 primary, got %d", len(resp.Primary))
	}
	if len(resp.Alternative) != 0 {
		t.Fatalf("expected no alternatives from a single candidate, got %d", len(resp.Alternative))
	}
}
