package core

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ── Input records (owned by external collaborators, read-only here) ──────────

// CatalogItem is a product from the catalog subsystem. Only items with
// Trackable = true participate in inventory intelligence.
type CatalogItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrentStock int             `json:"current_stock"`
	ReorderLevel int             `json:"reorder_level"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Trackable    bool            `json:"is_trackable"`
}

// SaleRecord is one historical invoice line for an item.
type SaleRecord struct {
	ItemID          string          `json:"item_id"`
	Date            time.Time       `json:"date"`
	Quantity        float64         `json:"quantity"`
	Revenue         decimal.Decimal `json:"revenue"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CostPriceAtSale decimal.Decimal `json:"cost_price_at_sale"`
}

// ExpenseRecord is a historical purchase/restock expense. Its free-text
// description is the only link back to a catalog item (see ExpenseMatcher).
type ExpenseRecord struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// BusinessContext carries caller-supplied hints passed through to the oracle.
type BusinessContext struct {
	BusinessSector string `json:"business_sector"`
}

// ── Enums ─────────────────────────────────────────────────────────────────────

type SalesTrend string

const (
	TrendGrowing          SalesTrend = "growing"
	TrendDeclining        SalesTrend = "declining"
	TrendStable           SalesTrend = "stable"
	TrendInsufficientData SalesTrend = "insufficient_data"
)

type DemandVariability string

const (
	VariabilityLow    DemandVariability = "low"
	VariabilityMedium DemandVariability = "medium"
	VariabilityHigh   DemandVariability = "high"
)

// StockAction is the tagged recommendation variant produced by the optimizer.
type StockAction string

const (
	ActionEmergencyOrder StockAction = "emergency_order"
	ActionReorderNow     StockAction = "reorder_now"
	ActionReorderSoon    StockAction = "reorder_soon"
	ActionReduceStock    StockAction = "reduce_stock"
	ActionMaintain       StockAction = "maintain"
)

// Priority orders recommendations and alert severities.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank maps a priority to its sort weight (critical=4 … low=1, unknown=0).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ── DaysOfStock ───────────────────────────────────────────────────────────────

// legacyUnboundedDays is what the wire format renders for an unbounded cover.
// Consumers built against the original API expect the 999 sentinel.
const legacyUnboundedDays = 999

// DaysOfStock is days of stock cover at current velocity: either a finite
// number of days or unbounded (no measurable consumption).
type DaysOfStock struct {
	days      float64
	unbounded bool
}

// FiniteDays returns a bounded cover, floored at zero.
func FiniteDays(d float64) DaysOfStock {
	if d < 0 {
		d = 0
	}
	return DaysOfStock{days: d}
}

// UnboundedDays returns the cover for an item with zero velocity.
func UnboundedDays() DaysOfStock {
	return DaysOfStock{unbounded: true}
}

// IsUnbounded reports whether the item is effectively not at stockout risk.
func (d DaysOfStock) IsUnbounded() bool { return d.unbounded }

// Days returns the finite day count and true, or (0, false) when unbounded.
func (d DaysOfStock) Days() (float64, bool) {
	if d.unbounded {
		return 0, false
	}
	return d.days, true
}

// MarshalJSON renders the legacy 999 sentinel for unbounded cover so the
// serialized bundle keeps its original shape.
func (d DaysOfStock) MarshalJSON() ([]byte, error) {
	if d.unbounded {
		return json.Marshal(legacyUnboundedDays)
	}
	return json.Marshal(d.days)
}

// UnmarshalJSON accepts the legacy numeric form.
func (d *DaysOfStock) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v >= legacyUnboundedDays {
		*d = UnboundedDays()
		return nil
	}
	*d = FiniteDays(v)
	return nil
}

// ── Derived entities (recomputed per analysis run, never persisted) ───────────

// ItemPerformanceAnalysis is the per-item sales/history summary derived by
// the analyzer. Velocities are units per day/week/month.
type ItemPerformanceAnalysis struct {
	ItemID               string             `json:"item_id"`
	ItemName             string             `json:"item_name"`
	CurrentStock         int                `json:"current_stock"`
	ReorderLevel         int                `json:"reorder_level"`
	UnitCost             decimal.Decimal    `json:"unit_cost"`
	UnitPrice            decimal.Decimal    `json:"unit_price"`
	TotalQuantitySold    float64            `json:"total_quantity_sold"`
	TotalRevenue         decimal.Decimal    `json:"total_revenue"`
	GrossProfit          decimal.Decimal    `json:"gross_profit"`
	ProfitMarginPct      float64            `json:"profit_margin_pct"`
	TotalPurchaseSpend   decimal.Decimal    `json:"total_purchase_spend"`
	DailyVelocity        float64            `json:"daily_velocity"`
	WeeklyVelocity       float64            `json:"weekly_velocity"`
	MonthlyVelocity      float64            `json:"monthly_velocity"`
	DaysOfStockRemaining DaysOfStock        `json:"days_of_stock_remaining"`
	MonthlySales         map[string]float64 `json:"monthly_sales"`
	SalesTrend           SalesTrend         `json:"sales_trend"`
	StockTurnover        float64            `json:"stock_turnover"`
}

// DemandForecast extends an analysis with the 30/60/90-day demand outlook,
// whether oracle-sourced or produced by the deterministic fallback.
type DemandForecast struct {
	ItemPerformanceAnalysis

	Next30DaysDemand   float64           `json:"next_30_days_demand"`
	Next60DaysDemand   float64           `json:"next_60_days_demand"`
	Next90DaysDemand   float64           `json:"next_90_days_demand"`
	SeasonalAdjustment float64           `json:"seasonal_adjustment"`
	ConfidenceLevel    float64           `json:"confidence_level"`
	DemandVariability  DemandVariability `json:"demand_variability"`
	ForecastReasoning  string            `json:"forecast_reasoning"`
	ForecastDate       time.Time         `json:"forecast_date"`
}

// Recommendation is the action the optimizer proposes for one item.
type Recommendation struct {
	Action    StockAction `json:"action"`
	Quantity  int         `json:"quantity"`
	Timeframe string      `json:"timeframe"`
	Priority  Priority    `json:"priority"`
}

// StockOptimization extends a forecast with safety-stock targets, risk
// scores (0–100), and the resulting recommendation.
type StockOptimization struct {
	DemandForecast

	RecommendedSafetyStock int            `json:"recommended_safety_stock"`
	OptimalStock           int            `json:"optimal_stock"`
	StockoutRisk           int            `json:"stockout_risk"`
	OverstockRisk          int            `json:"overstock_risk"`
	Recommendation         Recommendation `json:"recommendation"`
	StockGap               int            `json:"stock_gap"`
	DaysUntilStockout      DaysOfStock    `json:"days_until_stockout"`
}

// PurchaseRecommendation is an actionable buy suggestion for the caller.
type PurchaseRecommendation struct {
	ItemID              string          `json:"item_id"`
	ItemName            string          `json:"item_name"`
	CurrentStock        int             `json:"current_stock"`
	RecommendedQuantity int             `json:"recommended_quantity"`
	Urgency             string          `json:"urgency"`
	Priority            Priority        `json:"priority"`
	Reason              string          `json:"reason"`
	PotentialLostSales  decimal.Decimal `json:"potential_lost_sales"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	ExpectedRevenue     decimal.Decimal `json:"expected_revenue"`
}

// InventoryAlert is a severity-ranked notice about one item.
type InventoryAlert struct {
	Severity Priority `json:"severity"`
	ItemName string   `json:"item_name"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
	Impact   string   `json:"impact"`
}

// FinancialImpact aggregates the money at stake across all optimizations.
type FinancialImpact struct {
	TotalPotentialRevenueLoss    decimal.Decimal `json:"total_potential_revenue_loss"`
	TotalCapitalTiedUp           decimal.Decimal `json:"total_capital_tied_up"`
	TotalOptimizationOpportunity decimal.Decimal `json:"total_optimization_opportunity"`
	TotalReorderCost             decimal.Decimal `json:"total_reorder_cost"`
	NetBenefit                   decimal.Decimal `json:"net_benefit"`
	ROIProjectionPct             decimal.Decimal `json:"roi_projection_pct"`
}

// Summary counts items by health band and carries the key insight line.
type Summary struct {
	TotalItems     int    `json:"total_items"`
	CriticalItems  int    `json:"critical_items"`
	LowStockItems  int    `json:"low_stock_items"`
	HealthyItems   int    `json:"healthy_items"`
	OverstockItems int    `json:"overstock_items"`
	KeyInsight     string `json:"key_insight"`
}

// AnalysisBundle is the full result of one intelligence run.
type AnalysisBundle struct {
	ItemAnalyses            []ItemPerformanceAnalysis `json:"item_analyses"`
	DemandForecasts         []DemandForecast          `json:"demand_forecasts"`
	StockOptimizations      []StockOptimization       `json:"stock_optimizations"`
	PurchaseRecommendations []PurchaseRecommendation  `json:"purchase_recommendations"`
	InventoryAlerts         []InventoryAlert          `json:"inventory_alerts"`
	FinancialImpact         FinancialImpact           `json:"financial_impact"`
	Summary                 Summary                   `json:"summary"`
}
