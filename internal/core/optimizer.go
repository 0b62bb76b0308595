package core

import "math"

// StockOptimizer converts a demand forecast into a safety-stock target, risk
// scores, and an action recommendation. Pure and deterministic.
type StockOptimizer struct{}

// safetyStockFraction is the share of 30-day demand held as base safety
// stock before the variability multiplier is applied.
const safetyStockFraction = 0.2

// Optimize computes the StockOptimization for one forecast.
func (StockOptimizer) Optimize(forecast DemandForecast) StockOptimization {
	safetyStock := int(math.Ceil(forecast.Next30DaysDemand * safetyStockFraction * safetyStockMultiplier(forecast.DemandVariability)))
	optimalStock := int(math.Ceil(forecast.Next30DaysDemand + float64(safetyStock)))

	opt := StockOptimization{
		DemandForecast:         forecast,
		RecommendedSafetyStock: safetyStock,
		OptimalStock:           optimalStock,
		StockoutRisk:           calculateStockoutRisk(forecast.CurrentStock, forecast.Next30DaysDemand, forecast.DemandVariability),
		OverstockRisk:          calculateOverstockRisk(forecast.CurrentStock, forecast.Next30DaysDemand, forecast.DailyVelocity),
		StockGap:               optimalStock - forecast.CurrentStock,
	}

	opt.Recommendation = recommend(opt)

	if forecast.DailyVelocity > 0 {
		opt.DaysUntilStockout = FiniteDays(float64(forecast.CurrentStock) / forecast.DailyVelocity)
	} else {
		opt.DaysUntilStockout = UnboundedDays()
	}

	return opt
}

// safetyStockMultiplier scales safety stock by demand variability.
func safetyStockMultiplier(v DemandVariability) float64 {
	switch v {
	case VariabilityLow:
		return 1.2
	case VariabilityMedium:
		return 1.5
	case VariabilityHigh:
		return 2.0
	}
	return 1.5
}

// calculateStockoutRisk scores 0-100 how likely the item is to run out
// within the 30-day horizon. The coverage ratio is discounted by demand
// variability before banding, so volatile items score riskier at the same
// nominal coverage.
func calculateStockoutRisk(currentStock int, next30DaysDemand float64, v DemandVariability) int {
	if next30DaysDemand == 0 {
		return 0
	}

	variabilityMultiplier := 1.2
	switch v {
	case VariabilityLow:
		variabilityMultiplier = 1.0
	case VariabilityMedium:
		variabilityMultiplier = 1.2
	case VariabilityHigh:
		variabilityMultiplier = 1.5
	}

	adjustedRatio := (float64(currentStock) / next30DaysDemand) / variabilityMultiplier
	switch {
	case adjustedRatio >= 1.5:
		return 5
	case adjustedRatio >= 1.0:
		return 15
	case adjustedRatio >= 0.7:
		return 35
	case adjustedRatio >= 0.4:
		return 65
	case adjustedRatio >= 0.2:
		return 85
	default:
		return 95
	}
}

// calculateOverstockRisk scores 0-100 how much capital is parked in stock
// the item will not sell through soon. Zero-velocity items score 0: with no
// demand signal there is nothing to measure months-of-stock against.
func calculateOverstockRisk(currentStock int, next30DaysDemand, dailyVelocity float64) int {
	if dailyVelocity == 0 || next30DaysDemand == 0 {
		return 0
	}

	demand := next30DaysDemand
	if demand < 1 {
		demand = 1
	}
	monthsOfStock := float64(currentStock) / demand
	switch {
	case monthsOfStock <= 1.5:
		return 0
	case monthsOfStock <= 2.5:
		return 20
	case monthsOfStock <= 4.0:
		return 45
	case monthsOfStock <= 6.0:
		return 70
	default:
		return 90
	}
}

// recommend picks the action for an optimization. Clauses are evaluated in
// priority order and the first match wins: emergency ordering outranks
// everything, overstock reduction only applies when no restock is needed.
func recommend(opt StockOptimization) Recommendation {
	switch {
	case opt.StockoutRisk >= 90:
		qty := opt.OptimalStock - opt.CurrentStock
		if demand := int(math.Ceil(opt.Next30DaysDemand)); demand > qty {
			qty = demand
		}
		return Recommendation{
			Action:    ActionEmergencyOrder,
			Quantity:  qty,
			Timeframe: "Immediate - within 24 hours",
			Priority:  PriorityCritical,
		}
	case opt.StockoutRisk >= 65:
		return Recommendation{
			Action:    ActionReorderNow,
			Quantity:  opt.OptimalStock - opt.CurrentStock,
			Timeframe: "Within 3-5 days",
			Priority:  PriorityHigh,
		}
	case opt.CurrentStock <= opt.ReorderLevel:
		return Recommendation{
			Action:    ActionReorderSoon,
			Quantity:  opt.OptimalStock - opt.CurrentStock,
			Timeframe: "Within 1-2 weeks",
			Priority:  PriorityMedium,
		}
	case opt.OverstockRisk >= 70:
		return Recommendation{
			Action:    ActionReduceStock,
			Timeframe: "Plan promotion within 30 days",
			Priority:  PriorityLow,
		}
	default:
		return Recommendation{
			Action:    ActionMaintain,
			Timeframe: "Monitor regularly",
			Priority:  PriorityLow,
		}
	}
}
