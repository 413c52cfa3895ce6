package therapy

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
	RiskSevere RiskLevel = "severe"
)

type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyImmediate UrgencyLevel = "immediate"
)

// NeedsAnalysis is the ephemeral, per-request inference of what a user needs
// right now. Tag lists are ordered; order carries priority.
type NeedsAnalysis struct {
	PrimaryNeeds           []string  `json:"primary_needs"`
	SecondaryNeeds         []string  `json:"secondary_needs"`
	UrgentNeeds            []string  `json:"urgent_needs"`
	EmotionalState         string    `json:"emotional_state"`
	StressLevel            int       `json:"stress_level"`
	RiskLevel              RiskLevel `json:"risk_level"`
	TherapeuticPriorities  []string  `json:"therapeutic_priorities"`
	CulturalConsiderations []string  `json:"cultural_considerations"`
	// TimeConstraints is minutes available, 0 when unknown.
	TimeConstraints int `json:"time_constraints,omitempty"`
}
