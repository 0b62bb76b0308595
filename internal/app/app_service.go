package app

import (
	"context"
	"fmt"
	"time"

	"inventory-intelligence/internal/core"
	"inventory-intelligence/internal/store"
)

type appService struct {
	repo          store.HistoryRepository
	intel         *core.IntelligenceService
	defaultSector string
}

// NewAppService wires the history store and the intelligence core behind
// the ApplicationService interface.
func NewAppService(repo store.HistoryRepository, intel *core.IntelligenceService, defaultSector string) ApplicationService {
	return &appService{repo: repo, intel: intel, defaultSector: defaultSector}
}

func (s *appService) AnalyzeInventory(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	if req.CompanyCode == "" {
		return nil, fmt.Errorf("company code is required")
	}

	items, sales, expenses, err := s.loadHistory(ctx, req.CompanyCode, req.HistoryDays)
	if err != nil {
		return nil, err
	}

	sector := req.BusinessSector
	if sector == "" {
		sector = s.defaultSector
	}

	bundle, err := s.intel.AnalyzeInventoryOptimization(ctx, items, sales, expenses,
		core.BusinessContext{BusinessSector: sector})
	if err != nil {
		// Pass pipeline errors through untouched so adapters can map
		// ErrNoTrackableItems and AnalysisError to their own contracts.
		return nil, err
	}

	return &AnalysisResult{CompanyCode: req.CompanyCode, Bundle: bundle}, nil
}

func (s *appService) GetItemPerformance(ctx context.Context, companyCode, itemID string) (*ItemPerformanceResult, error) {
	if companyCode == "" || itemID == "" {
		return nil, fmt.Errorf("company code and item id are required")
	}

	item, err := s.repo.GetCatalogItem(ctx, companyCode, itemID)
	if err != nil {
		return nil, err
	}

	sales, err := s.repo.GetSaleRecords(ctx, companyCode, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}
	expenses, err := s.repo.GetExpenseRecords(ctx, companyCode, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expense history: %w", err)
	}

	return &ItemPerformanceResult{
		CompanyCode: companyCode,
		Analysis:    s.intel.AnalyzeItem(*item, sales, expenses),
	}, nil
}

func (s *appService) loadHistory(ctx context.Context, companyCode string, historyDays int) ([]core.CatalogItem, []core.SaleRecord, []core.ExpenseRecord, error) {
	var since time.Time
	if historyDays > 0 {
		since = time.Now().AddDate(0, 0, -historyDays)
	}

	items, err := s.repo.GetCatalogItems(ctx, companyCode)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	sales, err := s.repo.GetSaleRecords(ctx, companyCode, since)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load sales history: %w", err)
	}
	expenses, err := s.repo.GetExpenseRecords(ctx, companyCode, since)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load expense history: %w", err)
	}
	return items, sales, expenses, nil
}
