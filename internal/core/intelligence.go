package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ── Errors ────────────────────────────────────────────────────────────────────

// ErrNoTrackableItems is returned when no catalog item has stock tracking
// enabled. The caller should prompt the user to enable tracking.
var ErrNoTrackableItems = errors.New("no trackable inventory items: enable stock tracking on at least one item")

// AnalysisError wraps any unexpected failure inside the pipeline. The
// orchestrator converts internal faults (including panics) into this type so
// callers always receive a tagged result rather than a crash.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inventory analysis failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("inventory analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// ── IntelligenceService ───────────────────────────────────────────────────────

// defaultForecastLimit caps how many items are sent to the oracle per run.
// Oracle calls are the expensive step; everything below the cut still gets a
// local analysis.
const defaultForecastLimit = 10

// Config tunes an IntelligenceService. Zero values select defaults.
type Config struct {
	// ForecastLimit is the number of top-revenue items forecast per run.
	ForecastLimit int
	// Matcher is the expense-to-item matching policy.
	Matcher ExpenseMatcher
	// Now supplies timestamps for forecasts; nil means time.Now.
	Now func() time.Time
}

// IntelligenceService is the public entry point of the inventory
// intelligence pipeline. It is stateless: every call computes over the data
// supplied by the caller and persists nothing.
type IntelligenceService struct {
	analyzer      *ItemPerformanceAnalyzer
	forecaster    *DemandForecaster
	optimizer     StockOptimizer
	aggregator    RecommendationAggregator
	forecastLimit int
}

// NewIntelligenceService wires the pipeline. oracle may be nil, in which
// case every forecast uses the deterministic fallback.
func NewIntelligenceService(oracle ForecastOracle, cfg Config) *IntelligenceService {
	limit := cfg.ForecastLimit
	if limit <= 0 {
		limit = defaultForecastLimit
	}
	return &IntelligenceService{
		analyzer:      NewItemPerformanceAnalyzer(cfg.Matcher),
		forecaster:    NewDemandForecaster(oracle, cfg.Now),
		forecastLimit: limit,
	}
}

// AnalyzeItem exposes the analyzer for single-item views.
func (s *IntelligenceService) AnalyzeItem(item CatalogItem, sales []SaleRecord, expenses []ExpenseRecord) ItemPerformanceAnalysis {
	return s.analyzer.Analyze(item, sales, expenses)
}

// AnalyzeInventoryOptimization runs the full pipeline: analyze every
// trackable item, forecast the top earners, optimize each forecast, and
// aggregate recommendations, alerts, and financial impact.
//
// Failure contract: ErrNoTrackableItems when nothing is trackable; any other
// fault surfaces as *AnalysisError. Per-item oracle failures never surface —
// they are absorbed by the forecast fallback.
func (s *IntelligenceService) AnalyzeInventoryOptimization(ctx context.Context, items []CatalogItem, sales []SaleRecord, expenses []ExpenseRecord, bctx BusinessContext) (bundle *AnalysisBundle, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			bundle = nil
			err = &AnalysisError{Message: "internal pipeline panic", Err: fmt.Errorf("%v", rv)}
		}
	}()

	trackable := make([]CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Trackable {
			trackable = append(trackable, item)
		}
	}
	if len(trackable) == 0 {
		return nil, ErrNoTrackableItems
	}

	analyses := make([]ItemPerformanceAnalysis, 0, len(trackable))
	for _, item := range trackable {
		analyses = append(analyses, s.analyzer.Analyze(item, sales, expenses))
	}

	// Rank by revenue so the forecast budget goes to the items that matter.
	ranked := make([]ItemPerformanceAnalysis, len(analyses))
	copy(ranked, analyses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})
	if len(ranked) > s.forecastLimit {
		ranked = ranked[:s.forecastLimit]
	}

	forecasts := s.forecaster.ForecastAll(ctx, ranked, bctx)

	optimizations := make([]StockOptimization, 0, len(forecasts))
	for _, forecast := range forecasts {
		optimizations = append(optimizations, s.optimizer.Optimize(forecast))
	}
	sort.SliceStable(optimizations, func(i, j int) bool {
		return optimizations[i].StockoutRisk > optimizations[j].StockoutRisk
	})

	agg := s.aggregator.Aggregate(optimizations)

	return &AnalysisBundle{
		ItemAnalyses:            analyses,
		DemandForecasts:         forecasts,
		StockOptimizations:      optimizations,
		PurchaseRecommendations: agg.PurchaseRecommendations,
		InventoryAlerts:         agg.InventoryAlerts,
		FinancialImpact:         agg.FinancialImpact,
		Summary:                 agg.Summary,
	}, nil
}
