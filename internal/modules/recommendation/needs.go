package recommendation

import (
	"strings"

	"github.com/yungbote/mindbridge-backend/internal/config"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

// stateNeeds is the static emotional-state → needs table. Unknown states fall
// back to defaultStateNeeds.
type stateNeeds struct {
	primary   []string
	secondary []string
	urgent    []string
}

var emotionalStateNeeds = map[string]stateNeeds{
	"anxious": {
		primary:   []string{"anxiety_management", "grounding"},
		secondary: []string{"relaxation"},
	},
	"stressed": {
		primary:   []string{"stress_reduction", "relaxation"},
		secondary: []string{"time_management"},
	},
	"depressed": {
		primary:   []string{"mood_enhancement", "behavioral_activation"},
		secondary: []string{"social_connection"},
	},
	"overwhelmed": {
		primary:   []string{"stress_reduction"},
		secondary: []string{"task_breakdown"},
		urgent:    []string{"grounding"},
	},
	"angry": {
		primary:   []string{"anger_management", "emotional_regulation"},
		secondary: []string{"communication_skills"},
	},
	"lonely": {
		primary:   []string{"social_connection"},
		secondary: []string{"self_compassion"},
	},
	"confused": {
		primary:   []string{"clarity_building", "self_awareness"},
		secondary: []string{"decision_support"},
	},
}

var defaultStateNeeds = stateNeeds{
	primary:   []string{"general_wellbeing"},
	secondary: []string{"self_awareness"},
}

// concernRule adds tags when any keyword matches a reported primary concern.
type concernRule struct {
	keywords  []string
	primary   []string
	secondary []string
	priority  []string
	cultural  []string
}

var concernRules = []concernRule{
	{
		keywords: []string{"anxiety", "stress", "panic"},
		primary:  []string{"anxiety_management"},
		priority: []string{"emotional_regulation"},
	},
	{
		keywords: []string{"depression", "mood", "sadness"},
		primary:  []string{"mood_enhancement"},
		priority: []string{"behavioral_activation"},
	},
	{
		keywords:  []string{"sleep", "insomnia"},
		secondary: []string{"sleep_hygiene"},
	},
	{
		keywords:  []string{"relationship", "family", "social"},
		secondary: []string{"social_skills"},
		cultural:  []string{"family_dynamics"},
	},
}

// triggerRule adds tags when any keyword matches a free-text recent trigger.
type triggerRule struct {
	keywords []string
	primary  []string
	cultural []string
}

var triggerRules = []triggerRule{
	{
		keywords: []string{"exam", "academic", "study"},
		primary:  []string{"academic_stress_management"},
		cultural: []string{"academic_pressure"},
	},
	{
		keywords: []string{"family", "parents", "home"},
		primary:  []string{"family_conflict_resolution"},
		cultural: []string{"family_harmony"},
	},
	{
		keywords: []string{"work", "job", "career"},
		primary:  []string{"work_stress_management"},
	},
}

// highRiskLexicon flags triggers that indicate acute risk.
var highRiskLexicon = []string{"crisis", "emergency", "suicide", "harm", "breakdown"}

var indiaMarkers = []string{"india", "indian", "south_asian", "south asian", "desi"}

// NeedsAnalyzer derives a NeedsAnalysis from profile, state, and triggers.
// It is pure: no I/O, no stored state beyond the configured thresholds.
type NeedsAnalyzer struct {
	risk config.RiskThresholds
}

func NewNeedsAnalyzer(risk config.RiskThresholds) *NeedsAnalyzer {
	return &NeedsAnalyzer{risk: risk}
}

// Analyze infers the user's therapeutic needs for one request.
// stateOverride, when non-empty, wins over the profile's emotional state;
// timeAvailable is minutes, 0 when unconstrained.
func (a *NeedsAnalyzer) Analyze(user types.UserContext, stateOverride string, triggers []string, timeAvailable int) types.NeedsAnalysis {
	out := types.NeedsAnalysis{
		PrimaryNeeds:           []string{},
		SecondaryNeeds:         []string{},
		UrgentNeeds:            []string{},
		TherapeuticPriorities:  []string{},
		CulturalConsiderations: []string{},
		StressLevel:            user.State.StressLevel,
		TimeConstraints:        timeAvailable,
	}

	for _, concern := range user.History.PrimaryConcerns {
		lc := strings.ToLower(concern)
		for _, rule := range concernRules {
			if !matchesAny(lc, rule.keywords) {
				continue
			}
			out.PrimaryNeeds = appendMissing(out.PrimaryNeeds, rule.primary...)
			out.SecondaryNeeds = appendMissing(out.SecondaryNeeds, rule.secondary...)
			out.TherapeuticPriorities = appendMissing(out.TherapeuticPriorities, rule.priority...)
			out.CulturalConsiderations = appendMissing(out.CulturalConsiderations, rule.cultural...)
		}
	}

	state := strings.ToLower(strings.TrimSpace(stateOverride))
	if state == "" {
		state = strings.ToLower(strings.TrimSpace(user.State.EmotionalState))
	}
	out.EmotionalState = state
	needs, ok := emotionalStateNeeds[state]
	if !ok {
		needs = defaultStateNeeds
	}
	out.PrimaryNeeds = appendMissing(out.PrimaryNeeds, needs.primary...)
	out.SecondaryNeeds = appendMissing(out.SecondaryNeeds, needs.secondary...)
	out.UrgentNeeds = appendMissing(out.UrgentNeeds, needs.urgent...)

	for _, trigger := range triggers {
		lt := strings.ToLower(trigger)
		for _, rule := range triggerRules {
			if !matchesAny(lt, rule.keywords) {
				continue
			}
			out.PrimaryNeeds = appendMissing(out.PrimaryNeeds, rule.primary...)
			out.CulturalConsiderations = appendMissing(out.CulturalConsiderations, rule.cultural...)
		}
	}

	switch {
	case user.State.StressLevel > 8:
		out.UrgentNeeds = appendMissing(out.UrgentNeeds, "immediate_stress_relief")
		out.TherapeuticPriorities = prependMissing(out.TherapeuticPriorities, "crisis_stabilization")
	case user.State.StressLevel > 6:
		out.PrimaryNeeds = appendMissing(out.PrimaryNeeds, "stress_reduction")
	}

	if matchesAny(strings.ToLower(user.Demographics.CulturalBackground), indiaMarkers) {
		out.CulturalConsiderations = appendMissing(out.CulturalConsiderations,
			"indian_cultural_context", "respect_hierarchy")
	}

	out.RiskLevel = a.AssessRiskLevel(
		user.History.RiskFactors,
		user.State.StressLevel,
		triggers,
		user.History.ProtectiveFactors,
	)

	return out
}

// AssessRiskLevel maps an additive heuristic score onto the coarse risk
// levels. Not a clinical instrument.
func (a *NeedsAnalyzer) AssessRiskLevel(riskFactors []string, stressLevel int, triggers []string, protectiveFactors []string) types.RiskLevel {
	score := 0.5 * float64(len(riskFactors))

	switch {
	case stressLevel > 8:
		score += 2
	case stressLevel > 6:
		score += 1
	}

	for _, trigger := range triggers {
		if matchesAny(strings.ToLower(trigger), highRiskLexicon) {
			score += 3
			break
		}
	}

	score -= 0.3 * float64(len(protectiveFactors))

	switch {
	case score >= a.risk.Severe:
		return types.RiskSevere
	case score >= a.risk.High:
		return types.RiskHigh
	case score >= a.risk.Medium:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// appendMissing appends tags not already present, preserving order.
func appendMissing(list []string, tags ...string) []string {
	for _, tag := range tags {
		if tag == "" || contains(list, tag) {
			continue
		}
		list = append(list, tag)
	}
	return list
}

// prependMissing puts tag first; if already present it is moved to the front.
func prependMissing(list []string, tag string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, tag)
	for _, t := range list {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
