package app

import "inventory-intelligence/internal/core"

// AnalysisResult is returned by AnalyzeInventory.
type AnalysisResult struct {
	CompanyCode string               `json:"company_code"`
	Bundle      *core.AnalysisBundle `json:"bundle"`
}

// ItemPerformanceResult is returned by GetItemPerformance.
type ItemPerformanceResult struct {
	CompanyCode string                       `json:"company_code"`
	Analysis    core.ItemPerformanceAnalysis `json:"analysis"`
}
