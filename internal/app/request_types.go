package app

// AnalyzeRequest selects what to analyze and how far back to look.
type AnalyzeRequest struct {
	CompanyCode string `json:"company_code"`
	// BusinessSector overrides the server default sector hint for the oracle.
	BusinessSector string `json:"business_sector,omitempty"`
	// HistoryDays limits sale/expense history to the trailing window.
	// Zero means the full history.
	HistoryDays int `json:"history_days,omitempty"`
}
