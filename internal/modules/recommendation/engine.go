package recommendation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mindbridge-backend/internal/config"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

// ResultStore durably persists activity results. Optional; the engine's
// bounded in-process window keeps working without one.
type ResultStore interface {
	SaveResult(ctx context.Context, result types.ActivityResult) error
	ListResultsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.ActivityResult, error)
}

// Engine wires the needs analyzer, scorer, and selector behind a single
// entry point and keeps the bounded per-user engagement history.
type Engine struct {
	log      *logger.Logger
	registry Registry
	results  ResultStore // nil disables durable persistence

	analyzer *NeedsAnalyzer
	scorer   *ActivityScorer
	selector *RecommendationSelector

	historyLimit int

	mu      sync.Mutex
	history map[uuid.UUID][]types.ActivityResult
}

func NewEngine(log *logger.Logger, registry Registry, results ResultStore, cfg config.Config) *Engine {
	return &Engine{
		log:          log.With("service", "RecommendationEngine"),
		registry:     registry,
		results:      results,
		analyzer:     NewNeedsAnalyzer(cfg.Risk),
		scorer:       NewActivityScorer(cfg.Scoring),
		selector:     NewRecommendationSelector(),
		historyLimit: cfg.HistoryLimit,
		history:      make(map[uuid.UUID][]types.ActivityResult),
	}
}

// GenerateRecommendations runs the full pipeline: needs inference, candidate
// fetch, scoring, selection. An empty candidate set is a valid (empty)
// response, not an error.
func (e *Engine) GenerateRecommendations(ctx context.Context, req types.RecommendationRequest) (types.RecommendationResponse, error) {
	analysis := e.analyzer.Analyze(req.UserContext, req.EmotionalState, req.RecentTriggers, req.TimeAvailable)

	// Preferred categories stay out of the filters; they rank via the
	// scorer's category bonus so out-of-category candidates still compete.
	filters := ActivityFilters{
		MaxDuration: req.TimeAvailable,
		AvoidTypes:  req.AvoidActivities,
	}

	var (
		candidates []types.ActivityDescriptor
		crisis     []types.ActivityDescriptor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = e.registry.GetSuitableActivities(gctx, req.UserContext, filters)
		if err != nil {
			return fmt.Errorf("fetch suitable activities: %w", err)
		}
		return nil
	})
	if req.UrgencyLevel == types.UrgencyImmediate {
		g.Go(func() error {
			var err error
			crisis, err = e.registry.GetCrisisActivities(gctx, req.UserContext)
			if err != nil {
				return fmt.Errorf("fetch crisis activities: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.RecommendationResponse{}, err
	}

	scored := e.scorer.Score(candidates, analysis, req)
	resp := e.selector.Select(scored, crisis, analysis, req)

	e.log.Debug("Generated recommendations",
		"user_id", req.UserContext.UserID,
		"candidates", len(candidates),
		"primary", len(resp.Primary),
		"alternative", len(resp.Alternative),
		"emergency", len(resp.Emergency),
		"risk_level", analysis.RiskLevel,
		"confidence", resp.Confidence,
	)
	return resp, nil
}

// RecordActivityResult appends to the user's bounded in-process history,
// evicting the oldest entry past the limit, and writes through to the result
// store when one is wired. A store failure is logged, not surfaced; the
// in-process record always lands.
func (e *Engine) RecordActivityResult(ctx context.Context, userID uuid.UUID, result types.ActivityResult) {
	result.UserID = userID

	e.mu.Lock()
	list := append(e.history[userID], result)
	if len(list) > e.historyLimit {
		list = list[len(list)-e.historyLimit:]
	}
	e.history[userID] = list
	e.mu.Unlock()

	if e.results != nil {
		if err := e.results.SaveResult(ctx, result); err != nil {
			e.log.Warn("Failed to persist activity result",
				"user_id", userID, "activity_type", result.ActivityType, "error", err)
		}
	}
}

// GetUserActivityHistory returns the user's recent results, oldest first.
// Reads come from the result store when wired, falling back to the in-process
// window.
func (e *Engine) GetUserActivityHistory(ctx context.Context, userID uuid.UUID) []types.ActivityResult {
	if e.results != nil {
		rows, err := e.results.ListResultsByUser(ctx, userID, e.historyLimit)
		if err == nil {
			return rows
		}
		e.log.Warn("Failed to read activity results, serving in-process history",
			"user_id", userID, "error", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.ActivityResult{}, e.history[userID]...)
}
