package core_test

import (
	"testing"

	"inventory-intelligence/internal/core"
)

// forecastFor builds a minimal forecast for optimizer tests.
func forecastFor(currentStock, reorderLevel int, next30 float64, variability core.DemandVariability, dailyVelocity float64) core.DemandForecast {
	return core.DemandForecast{
		ItemPerformanceAnalysis: core.ItemPerformanceAnalysis{
			ItemID:        "ITEM-1",
			ItemName:      "Blue Widget",
			CurrentStock:  currentStock,
			ReorderLevel:  reorderLevel,
			DailyVelocity: dailyVelocity,
		},
		Next30DaysDemand:  next30,
		DemandVariability: variability,
	}
}

func TestOptimizer_SafetyStockByVariability(t *testing.T) {
	tests := []struct {
		variability     core.DemandVariability
		wantSafetyStock int
		wantOptimal     int
	}{
		{core.VariabilityLow, 24, 124},    // ceil(100 × 0.2 × 1.2)
		{core.VariabilityMedium, 30, 130}, // ceil(100 × 0.2 × 1.5)
		{core.VariabilityHigh, 40, 140},   // ceil(100 × 0.2 × 2.0)
		{core.DemandVariability("odd"), 30, 130}, // unrecognized defaults to 1.5
	}

	var optimizer core.StockOptimizer
	for _, tt := range tests {
		t.Run(string(tt.variability), func(t *testing.T) {
			opt := optimizer.Optimize(forecastFor(50, 10, 100, tt.variability, 2))
			if opt.RecommendedSafetyStock != tt.wantSafetyStock {
				t.Errorf("safety stock = %d, want %d", opt.RecommendedSafetyStock, tt.wantSafetyStock)
			}
			if opt.OptimalStock != tt.wantOptimal {
				t.Errorf("optimal stock = %d, want %d", opt.OptimalStock, tt.wantOptimal)
			}
			if opt.StockGap != tt.wantOptimal-50 {
				t.Errorf("stock gap = %d, want %d", opt.StockGap, tt.wantOptimal-50)
			}
		})
	}
}

func TestOptimizer_StockoutRiskBands(t *testing.T) {
	// With low variability the multiplier is 1.0, so the adjusted ratio is
	// exactly currentStock/demand.
	tests := []struct {
		stock int
		want  int
	}{
		{150, 5},
		{100, 15},
		{70, 35},
		{40, 65},
		{20, 85},
		{10, 95},
		{0, 95},
	}

	var optimizer core.StockOptimizer
	for _, tt := range tests {
		opt := optimizer.Optimize(forecastFor(tt.stock, 0, 100, core.VariabilityLow, 3))
		if opt.StockoutRisk != tt.want {
			t.Errorf("stock %d: stockout risk = %d, want %d", tt.stock, opt.StockoutRisk, tt.want)
		}
	}
}

func TestOptimizer_ZeroDemandHasNoRisk(t *testing.T) {
	var optimizer core.StockOptimizer
	opt := optimizer.Optimize(forecastFor(10, 0, 0, core.VariabilityMedium, 0))

	if opt.StockoutRisk != 0 {
		t.Errorf("stockout risk = %d, want 0", opt.StockoutRisk)
	}
	if opt.OverstockRisk != 0 {
		t.Errorf("overstock risk = %d, want 0", opt.OverstockRisk)
	}
	if !opt.DaysUntilStockout.IsUnbounded() {
		t.Error("expected unbounded days until stockout at zero velocity")
	}
	if opt.Recommendation.Action != core.ActionMaintain {
		t.Errorf("action = %s, want maintain", opt.Recommendation.Action)
	}
}

func TestOptimizer_OverstockRiskBands(t *testing.T) {
	tests := []struct {
		stock int
		want  int
	}{
		{15, 0},    // 1.5 months of stock
		{25, 20},   // 2.5
		{40, 45},   // 4.0
		{60, 70},   // 6.0
		{1000, 90}, // deep overstock
	}

	var optimizer core.StockOptimizer
	for _, tt := range tests {
		opt := optimizer.Optimize(forecastFor(tt.stock, 0, 10, core.VariabilityLow, 0.3))
		if opt.OverstockRisk != tt.want {
			t.Errorf("stock %d: overstock risk = %d, want %d", tt.stock, opt.OverstockRisk, tt.want)
		}
	}
}

// Stockout risk never rises, and overstock risk never falls, as stock grows.
func TestOptimizer_RiskMonotonicity(t *testing.T) {
	var optimizer core.StockOptimizer
	prevStockout := 101
	prevOverstock := -1
	for stock := 0; stock <= 400; stock += 5 {
		opt := optimizer.Optimize(forecastFor(stock, 0, 100, core.VariabilityMedium, 3))
		if opt.StockoutRisk > prevStockout {
			t.Fatalf("stockout risk rose from %d to %d at stock %d", prevStockout, opt.StockoutRisk, stock)
		}
		if opt.OverstockRisk < prevOverstock {
			t.Fatalf("overstock risk fell from %d to %d at stock %d", prevOverstock, opt.OverstockRisk, stock)
		}
		prevStockout = opt.StockoutRisk
		prevOverstock = opt.OverstockRisk
	}
}

// A critical stockout risk always wins the recommendation, regardless of
// overstock risk or reorder level.
func TestOptimizer_EmergencyOrderPrecedence(t *testing.T) {
	var optimizer core.StockOptimizer
	f := forecastFor(5, 1000, 100, core.VariabilityHigh, 4)
	opt := optimizer.Optimize(f)

	if opt.StockoutRisk < 90 {
		t.Fatalf("test premise broken: stockout risk = %d, want >= 90", opt.StockoutRisk)
	}
	if opt.Recommendation.Action != core.ActionEmergencyOrder {
		t.Errorf("action = %s, want emergency_order", opt.Recommendation.Action)
	}
	if opt.Recommendation.Priority != core.PriorityCritical {
		t.Errorf("priority = %s, want critical", opt.Recommendation.Priority)
	}
}

func TestOptimizer_ScenarioLowStockHighDemand(t *testing.T) {
	// 5 units on hand against 100 units of volatile 30-day demand:
	// adjusted ratio (5/100)/1.5 ≈ 0.033 lands in the top risk band.
	var optimizer core.StockOptimizer
	opt := optimizer.Optimize(forecastFor(5, 10, 100, core.VariabilityHigh, 4))

	if opt.StockoutRisk != 95 {
		t.Errorf("stockout risk = %d, want 95", opt.StockoutRisk)
	}
	if opt.Recommendation.Action != core.ActionEmergencyOrder {
		t.Errorf("action = %s, want emergency_order", opt.Recommendation.Action)
	}
	// Emergency quantity covers at least the full 30-day demand; here the
	// optimal-stock gap (140-5) is larger and wins.
	if opt.Recommendation.Quantity != 135 {
		t.Errorf("quantity = %d, want 135", opt.Recommendation.Quantity)
	}
	if opt.Recommendation.Timeframe != "Immediate - within 24 hours" {
		t.Errorf("timeframe = %q", opt.Recommendation.Timeframe)
	}
}

func TestOptimizer_ScenarioDeepOverstock(t *testing.T) {
	// 1000 units against 10 units of monthly demand: 100 months of stock.
	var optimizer core.StockOptimizer
	opt := optimizer.Optimize(forecastFor(1000, 50, 10, core.VariabilityLow, 0.33))

	if opt.OverstockRisk != 90 {
		t.Errorf("overstock risk = %d, want 90", opt.OverstockRisk)
	}
	if opt.StockoutRisk >= 65 {
		t.Fatalf("test premise broken: stockout risk = %d", opt.StockoutRisk)
	}
	if opt.Recommendation.Action != core.ActionReduceStock {
		t.Errorf("action = %s, want reduce_stock", opt.Recommendation.Action)
	}
	if opt.Recommendation.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", opt.Recommendation.Quantity)
	}
}

func TestOptimizer_ReorderSoonAtReorderLevel(t *testing.T) {
	// Moderate risk but stock at the reorder level: reorder_soon applies.
	var optimizer core.StockOptimizer
	opt := optimizer.Optimize(forecastFor(100, 100, 100, core.VariabilityLow, 3))

	if opt.StockoutRisk >= 65 {
		t.Fatalf("test premise broken: stockout risk = %d", opt.StockoutRisk)
	}
	if opt.Recommendation.Action != core.ActionReorderSoon {
		t.Errorf("action = %s, want reorder_soon", opt.Recommendation.Action)
	}
	if opt.Recommendation.Priority != core.PriorityMedium {
		t.Errorf("priority = %s, want medium", opt.Recommendation.Priority)
	}
}
