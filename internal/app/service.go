package app

import "context"

// ApplicationService is the single interface all adapters (web, CLI) call.
// It decouples presentation from the intelligence core and the history
// store. Implementations contain no display logic.
type ApplicationService interface {
	// AnalyzeInventory loads the company's catalog and history and runs the
	// full inventory intelligence pipeline.
	AnalyzeInventory(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)

	// GetItemPerformance returns the historical performance analysis for a
	// single catalog item, without forecasting or optimization.
	GetItemPerformance(ctx context.Context, companyCode, itemID string) (*ItemPerformanceResult, error)
}
