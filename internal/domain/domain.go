package domain

import (
	"github.com/yungbote/mindbridge-backend/internal/domain/therapy"
)

type UserContext = therapy.UserContext
type Demographics = therapy.Demographics
type MentalHealthHistory = therapy.MentalHealthHistory
type CurrentState = therapy.CurrentState
type ActivityPreferences = therapy.ActivityPreferences
type TherapeuticProgress = therapy.TherapeuticProgress

type NeedsAnalysis = therapy.NeedsAnalysis
type RiskLevel = therapy.RiskLevel
type UrgencyLevel = therapy.UrgencyLevel

type ActivityDescriptor = therapy.ActivityDescriptor
type ScoredActivity = therapy.ScoredActivity
type ActivityRecommendation = therapy.ActivityRecommendation
type RecommendationRequest = therapy.RecommendationRequest
type RecommendationResponse = therapy.RecommendationResponse
type ActivityResult = therapy.ActivityResult

type ActivitySession = therapy.ActivitySession
type SessionStatus = therapy.SessionStatus
type SessionConfiguration = therapy.SessionConfiguration
type SessionInteraction = therapy.SessionInteraction
type SessionAdaptation = therapy.SessionAdaptation
type SessionResult = therapy.SessionResult

const (
	SessionNotStarted = therapy.SessionNotStarted
	SessionActive     = therapy.SessionActive
	SessionPaused     = therapy.SessionPaused
	SessionCompleted  = therapy.SessionCompleted
	SessionAbandoned  = therapy.SessionAbandoned

	RiskLow    = therapy.RiskLow
	RiskMedium = therapy.RiskMedium
	RiskHigh   = therapy.RiskHigh
	RiskSevere = therapy.RiskSevere

	UrgencyLow       = therapy.UrgencyLow
	UrgencyMedium    = therapy.UrgencyMedium
	UrgencyHigh      = therapy.UrgencyHigh
	UrgencyImmediate = therapy.UrgencyImmediate
)
