package recommendation

import (
	"testing"

	"github.com/yungbote/mindbridge-backend/internal/config"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

func newTestAnalyzer() *NeedsAnalyzer {
	return NewNeedsAnalyzer(config.Default().Risk)
}

func TestAnalyze_HighStressAddsUrgentRelief(t *testing.T) {
	a := newTestAnalyzer()
	user := types.UserContext{
		State: types.CurrentState{EmotionalState: "stressed", StressLevel: 9},
	}

	out := a.Analyze(user, "", nil, 0)

	if !contains(out.UrgentNeeds, "immediate_stress_relief") {
		t.Fatalf("expected urgent needs to include immediate_stress_relief, got %v", out.UrgentNeeds)
	}
	if len(out.TherapeuticPriorities) == 0 || out.TherapeuticPriorities[0] != "crisis_stabilization" {
		t.Fatalf("expected crisis_stabilization first in priorities, got %v", out.TherapeuticPriorities)
	}
}

func TestAnalyze_ModerateStressAddsPrimaryReduction(t *testing.T) {
	a := newTestAnalyzer()
	user := types.UserContext{
		State: types.CurrentState{EmotionalState: "confused", StressLevel: 7},
	}

	out := a.Analyze(user, "", nil, 0)

	if !contains(out.PrimaryNeeds, "stress_reduction") {
		t.Fatalf("expected primary needs to include stress_reduction, got %v", out.PrimaryNeeds)
	}
	if contains(out.UrgentNeeds, "immediate_stress_relief") {
		t.Fatalf("stress level 7 must not produce urgent relief, got %v", out.UrgentNeeds)
	}
}

func TestAnalyze_StateOverrideWinsOverProfile(t *testing.T) {
	a := newTestAnalyzer()
	user := types.UserContext{
		State: types.CurrentState{EmotionalState: "depressed"},
	}

	out := a.Analyze(user, "anxious", nil, 0)

	if out.EmotionalState != "anxious" {
		t.Fatalf("expected state override to win, got %q", out.EmotionalState)
	}
	if !contains(out.PrimaryNeeds, "anxiety_management") {
		t.Fatalf("expected anxious needs, got %v", out.PrimaryNeeds)
	}
}

func TestAnalyze_UnknownStateFallsBackToDefaults(t *testing.T) {
	a := newTestAnalyzer()
	out := a.Analyze(types.UserContext{}, "perplexed", nil, 0)

	if !contains(out.PrimaryNeeds, "general_wellbeing") {
		t.Fatalf("expected default primary needs, got %v", out.PrimaryNeeds)
	}
	if !contains(out.SecondaryNeeds, "self_awareness") {
		t.Fatalf("expected default secondary needs, got %v", out.SecondaryNeeds)
	}
}

func TestAnalyze_ConcernAndStateTagsDeduplicate(t *testing.T) {
	a := newTestAnalyzer()
	user := types.UserContext{
		History: types.MentalHealthHistory{PrimaryConcerns: []string{"exam anxiety"}},
		State:   types.CurrentState{EmotionalState: "anxious"},
	}

	out := a.Analyze(user, "", nil, 0)

	count := 0
	for _, n := range out.PrimaryNeeds {
		if n == "anxiety_management" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected anxiety_management exactly once, got %v", out.PrimaryNeeds)
	}
}

func TestAnalyze_TriggerAndCulturalTags(t *testing.T) {
	a := newTestAnalyzer()
	user := types.UserContext{
		Demographics: types.Demographics{CulturalBackground: "indian"},
	}

	out := a.Analyze(user, "", []string{"upcoming exam next week"}, 0)

	if !contains(out.PrimaryNeeds, "academic_stress_management") {
		t.Fatalf("expected exam trigger to add academic need, got %v", out.PrimaryNeeds)
	}
	if !contains(out.CulturalConsiderations, "academic_pressure") {
		t.Fatalf("expected academic_pressure consideration, got %v", out.CulturalConsiderations)
	}
	if !contains(out.CulturalConsiderations, "indian_cultural_context") {
		t.Fatalf("expected indian cultural context, got %v", out.CulturalConsiderations)
	}
}

func TestAssessRiskLevel_Thresholds(t *testing.T) {
	a := newTestAnalyzer()

	cases := []struct {
		name       string
		factors    []string
		stress     int
		triggers   []string
		protective []string
		want       types.RiskLevel
	}{
		{
			name: "no signals is low",
			want: types.RiskLow,
		},
		{
			// 3*0.5 + 1 = 2.5, exactly the high threshold
			name:    "factors plus moderate stress is high",
			factors: []string{"isolation", "sleep loss", "past episode"},
			stress:  7,
			want:    types.RiskHigh,
		},
		{
			// crisis trigger alone contributes 3
			name:     "crisis trigger is high",
			triggers: []string{"had a breakdown at work"},
			want:     types.RiskHigh,
		},
		{
			// 3 + 2 = 5 >= severe
			name:     "crisis trigger with high stress is severe",
			stress:   9,
			triggers: []string{"crisis"},
			want:     types.RiskSevere,
		},
		{
			// 2*0.5 - 4*0.3 = -0.2
			name:       "protective factors pull the score down",
			factors:    []string{"a", "b"},
			protective: []string{"family support", "exercise", "therapy", "community"},
			want:       types.RiskLow,
		},
		{
			// 2*0.5 = 1, exactly the medium threshold
			name:    "two factors is medium",
			factors: []string{"a", "b"},
			want:    types.RiskMedium,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := a.AssessRiskLevel(tc.factors, tc.stress, tc.triggers, tc.protective)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestAssessRiskLevel_MultipleCrisisTriggersCountOnce(t *testing.T) {
	a := newTestAnalyzer()

	// Two flagged triggers must add 3 once, not 6: stays high, not severe.
	got := a.AssessRiskLevel(nil, 0, []string{"crisis", "emergency"}, nil)
	if got != types.RiskHigh {
		t.Fatalf("expected high, got %s", got)
	}
}

func TestAnalyze_IsPure(t *testing.T) {
	a := newTestAnalyzer()
	user := types.UserContext{
		History: types.MentalHealthHistory{PrimaryConcerns: []string{"anxiety"}},
		State:   types.CurrentState{EmotionalState: "anxious", StressLevel: 9},
	}
	triggers := []string{"exam"}

	first := a.Analyze(user, "", triggers, 15)
	second := a.Analyze(user, "", triggers, 15)

	if first.RiskLevel != second.RiskLevel || len(first.PrimaryNeeds) != len(second.PrimaryNeeds) {
		t.Fatalf("expected identical analyses, got %+v vs %+v", first, second)
	}
}
