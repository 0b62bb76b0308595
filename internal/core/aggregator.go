package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Risk thresholds used by alerting, financial impact, and the summary bands.
const (
	stockoutRiskCritical = 90
	stockoutRiskHigh     = 65
	stockoutRiskLow      = 50
	overstockRiskHigh    = 70
	overstockRiskMedium  = 50
	healthyRiskCeiling   = 30
	slowMovingTurnover   = 2.0
)

// lostSalesCaptureRate discounts projected lost sales: not every unserved
// unit of demand converts to a lost sale.
const lostSalesCaptureRate = 0.7

// revenueLossRealization discounts at-risk revenue in the financial impact
// aggregate relative to the per-item lost-sales estimate.
const revenueLossRealization = 0.5

// AggregateResult is the output of one aggregation pass.
type AggregateResult struct {
	PurchaseRecommendations []PurchaseRecommendation
	InventoryAlerts         []InventoryAlert
	FinancialImpact         FinancialImpact
	Summary                 Summary
}

// RecommendationAggregator filters and ranks optimizer output into purchase
// recommendations, severity-ranked alerts, and aggregate financials.
type RecommendationAggregator struct{}

// Aggregate processes all optimizations into the caller-facing lists.
func (a RecommendationAggregator) Aggregate(optimizations []StockOptimization) AggregateResult {
	return AggregateResult{
		PurchaseRecommendations: a.purchaseRecommendations(optimizations),
		InventoryAlerts:         a.alerts(optimizations),
		FinancialImpact:         a.financialImpact(optimizations),
		Summary:                 a.summary(optimizations),
	}
}

// ── Purchase recommendations ──────────────────────────────────────────────────

func (RecommendationAggregator) purchaseRecommendations(optimizations []StockOptimization) []PurchaseRecommendation {
	recs := make([]PurchaseRecommendation, 0, len(optimizations))
	for _, opt := range optimizations {
		qty := opt.Recommendation.Quantity
		if qty <= 0 {
			continue
		}

		qtyDec := decimal.NewFromInt(int64(qty))
		lostSalesFactor := decimal.NewFromFloat(float64(opt.StockoutRisk) / 100 * opt.Next30DaysDemand * lostSalesCaptureRate)

		recs = append(recs, PurchaseRecommendation{
			ItemID:              opt.ItemID,
			ItemName:            opt.ItemName,
			CurrentStock:        opt.CurrentStock,
			RecommendedQuantity: qty,
			Urgency:             opt.Recommendation.Timeframe,
			Priority:            opt.Recommendation.Priority,
			Reason:              recommendationReason(opt),
			PotentialLostSales:  opt.UnitPrice.Mul(lostSalesFactor),
			EstimatedCost:       opt.UnitCost.Mul(qtyDec),
			ExpectedRevenue:     opt.UnitPrice.Mul(qtyDec),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() > recs[j].Priority.Rank()
	})
	return recs
}

func recommendationReason(opt StockOptimization) string {
	switch opt.Recommendation.Action {
	case ActionEmergencyOrder:
		return fmt.Sprintf("Stockout risk %d%% — %s of cover left at current velocity", opt.StockoutRisk, coverPhrase(opt.DaysUntilStockout))
	case ActionReorderNow:
		return fmt.Sprintf("Stockout risk %d%% against %.0f units of forecast 30-day demand", opt.StockoutRisk, opt.Next30DaysDemand)
	case ActionReorderSoon:
		return fmt.Sprintf("Stock (%d) is at or below the reorder level (%d)", opt.CurrentStock, opt.ReorderLevel)
	default:
		return "Stock position below optimal level"
	}
}

func coverPhrase(d DaysOfStock) string {
	days, ok := d.Days()
	if !ok {
		return "no measurable consumption"
	}
	return fmt.Sprintf("%.0f days", days)
}

// ── Alerts ────────────────────────────────────────────────────────────────────

// alerts applies each alert rule independently; one item can raise several.
func (RecommendationAggregator) alerts(optimizations []StockOptimization) []InventoryAlert {
	var alerts []InventoryAlert
	for _, opt := range optimizations {
		if opt.StockoutRisk >= stockoutRiskCritical {
			alerts = append(alerts, InventoryAlert{
				Severity: PriorityCritical,
				ItemName: opt.ItemName,
				Message:  fmt.Sprintf("Projected stockout in %s at current sales velocity", coverPhrase(opt.DaysUntilStockout)),
				Action:   "Place an emergency order immediately",
				Impact:   fmt.Sprintf("Revenue at risk: %s", atRiskRevenue(opt).StringFixed(2)),
			})
		} else if opt.StockoutRisk >= stockoutRiskHigh {
			alerts = append(alerts, InventoryAlert{
				Severity: PriorityHigh,
				ItemName: opt.ItemName,
				Message:  fmt.Sprintf("Stockout risk %d%% within the 30-day horizon", opt.StockoutRisk),
				Action:   "Reorder within the next few days",
				Impact:   fmt.Sprintf("Revenue at risk: %s", atRiskRevenue(opt).StringFixed(2)),
			})
		}

		if opt.OverstockRisk >= overstockRiskHigh {
			excess := opt.CurrentStock - int(opt.Next30DaysDemand)
			if excess < 0 {
				excess = 0
			}
			alerts = append(alerts, InventoryAlert{
				Severity: PriorityMedium,
				ItemName: opt.ItemName,
				Message:  fmt.Sprintf("Holding %d units beyond 30-day demand", excess),
				Action:   "Plan a promotion or reduce replenishment",
				Impact:   fmt.Sprintf("Capital tied up: %s", opt.UnitCost.Mul(decimal.NewFromInt(int64(excess))).StringFixed(2)),
			})
		}

		if opt.StockTurnover < slowMovingTurnover && opt.CurrentStock > 0 {
			alerts = append(alerts, InventoryAlert{
				Severity: PriorityLow,
				ItemName: opt.ItemName,
				Message:  fmt.Sprintf("Slow-moving stock: turnover %.2f over the analyzed period", opt.StockTurnover),
				Action:   "Review pricing or discontinue the line",
				Impact:   fmt.Sprintf("Inventory value: %s", opt.UnitCost.Mul(decimal.NewFromInt(int64(opt.CurrentStock))).StringFixed(2)),
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() > alerts[j].Severity.Rank()
	})
	return alerts
}

// atRiskRevenue is the risk-weighted 30-day revenue for one item.
func atRiskRevenue(opt StockOptimization) decimal.Decimal {
	return opt.UnitPrice.Mul(decimal.NewFromFloat(opt.Next30DaysDemand * float64(opt.StockoutRisk) / 100))
}

// ── Financial impact ──────────────────────────────────────────────────────────

func (RecommendationAggregator) financialImpact(optimizations []StockOptimization) FinancialImpact {
	impact := FinancialImpact{
		TotalPotentialRevenueLoss:    decimal.Zero,
		TotalCapitalTiedUp:           decimal.Zero,
		TotalOptimizationOpportunity: decimal.Zero,
		TotalReorderCost:             decimal.Zero,
		NetBenefit:                   decimal.Zero,
		ROIProjectionPct:             decimal.Zero,
	}

	for _, opt := range optimizations {
		if opt.StockoutRisk >= stockoutRiskLow {
			loss := opt.UnitPrice.Mul(decimal.NewFromFloat(opt.Next30DaysDemand * float64(opt.StockoutRisk) / 100 * revenueLossRealization))
			impact.TotalPotentialRevenueLoss = impact.TotalPotentialRevenueLoss.Add(loss)
		}

		if opt.OverstockRisk >= overstockRiskMedium {
			excess := float64(opt.CurrentStock) - opt.Next30DaysDemand
			if excess > 0 {
				impact.TotalCapitalTiedUp = impact.TotalCapitalTiedUp.Add(opt.UnitCost.Mul(decimal.NewFromFloat(excess)))
			}
		}

		if qty := opt.Recommendation.Quantity; qty > 0 {
			qtyDec := decimal.NewFromInt(int64(qty))
			impact.TotalOptimizationOpportunity = impact.TotalOptimizationOpportunity.Add(opt.UnitPrice.Sub(opt.UnitCost).Mul(qtyDec))
			impact.TotalReorderCost = impact.TotalReorderCost.Add(opt.UnitCost.Mul(qtyDec))
		}
	}

	impact.NetBenefit = impact.TotalOptimizationOpportunity.Sub(impact.TotalPotentialRevenueLoss)
	if impact.TotalReorderCost.IsPositive() {
		impact.ROIProjectionPct = impact.TotalOptimizationOpportunity.Div(impact.TotalReorderCost).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return impact
}

// ── Summary ───────────────────────────────────────────────────────────────────

func (RecommendationAggregator) summary(optimizations []StockOptimization) Summary {
	s := Summary{TotalItems: len(optimizations)}
	for _, opt := range optimizations {
		if opt.StockoutRisk >= stockoutRiskCritical {
			s.CriticalItems++
		}
		if opt.StockoutRisk >= stockoutRiskLow {
			s.LowStockItems++
		}
		if opt.StockoutRisk < healthyRiskCeiling && opt.OverstockRisk < healthyRiskCeiling {
			s.HealthyItems++
		}
		if opt.OverstockRisk >= overstockRiskHigh {
			s.OverstockItems++
		}
	}
	s.KeyInsight = keyInsight(s)
	return s
}

// keyInsight picks the single most pressing observation for the summary.
func keyInsight(s Summary) string {
	switch {
	case s.CriticalItems > 0:
		return fmt.Sprintf("%d item(s) need emergency reordering to avoid imminent stockouts", s.CriticalItems)
	case s.TotalItems > 0 && float64(s.LowStockItems) > 0.3*float64(s.TotalItems):
		return "A large share of your inventory is running low - schedule reorders this week"
	case s.TotalItems > 0 && float64(s.OverstockItems) > 0.2*float64(s.TotalItems):
		return "Excess stock is tying up capital - consider promotions to move slow inventory"
	default:
		return "Inventory levels are well-balanced across tracked items"
	}
}
