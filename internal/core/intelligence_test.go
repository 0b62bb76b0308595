package core_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"inventory-intelligence/internal/core"
)

func trackableItem(id string, stock int) core.CatalogItem {
	return core.CatalogItem{
		ID:           id,
		Name:         "Item " + id,
		CurrentStock: stock,
		ReorderLevel: 5,
		UnitCost:     decimal.NewFromInt(10),
		UnitPrice:    decimal.NewFromInt(25),
		Trackable:    true,
	}
}

// saleFor produces one sale with the given revenue so items can be ranked.
func saleFor(itemID string, revenue int64) core.SaleRecord {
	return core.SaleRecord{
		ItemID:          itemID,
		Date:            time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		Quantity:        4,
		Revenue:         decimal.NewFromInt(revenue),
		UnitPrice:       decimal.NewFromInt(25),
		CostPriceAtSale: decimal.NewFromInt(10),
	}
}

func TestIntelligenceService_Deterministic(t *testing.T) {
	oracle := &stubOracle{responses: map[string]core.ForecastResponse{
		"A": goodResponse(),
		"B": goodResponse(),
	}}
	items := []core.CatalogItem{trackableItem("A", 20), trackableItem("B", 3)}
	sales := []core.SaleRecord{saleFor("A", 500), saleFor("B", 200)}
	expenses := []core.ExpenseRecord{
		{Date: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(150), Description: "Restock Item A from supplier"},
	}
	bctx := core.BusinessContext{BusinessSector: "retail"}

	run := func() *core.AnalysisBundle {
		svc := core.NewIntelligenceService(oracle, core.Config{Now: fixedNow})
		bundle, err := svc.AnalyzeInventoryOptimization(context.Background(), items, sales, expenses, bctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return bundle
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical inputs produced different bundles")
	}
}

func TestIntelligenceService_NoTrackableItems(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{Now: fixedNow})

	items := []core.CatalogItem{
		{ID: "A", Name: "Untracked A"},
		{ID: "B", Name: "Untracked B"},
	}
	bundle, err := svc.AnalyzeInventoryOptimization(context.Background(), items, nil, nil, core.BusinessContext{})

	if !errors.Is(err, core.ErrNoTrackableItems) {
		t.Fatalf("err = %v, want ErrNoTrackableItems", err)
	}
	if bundle != nil {
		t.Errorf("bundle = %+v, want nil", bundle)
	}
}

func TestIntelligenceService_UntrackedItemsAreExcluded(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{Now: fixedNow})

	tracked := trackableItem("A", 20)
	untracked := trackableItem("B", 20)
	untracked.Trackable = false

	bundle, err := svc.AnalyzeInventoryOptimization(context.Background(),
		[]core.CatalogItem{tracked, untracked},
		[]core.SaleRecord{saleFor("A", 500), saleFor("B", 900)},
		nil, core.BusinessContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bundle.ItemAnalyses) != 1 || bundle.ItemAnalyses[0].ItemID != "A" {
		t.Errorf("analyses should cover only the trackable item, got %+v", bundle.ItemAnalyses)
	}
}

// Only the top-revenue items get a forecast; the rest still get an analysis.
func TestIntelligenceService_ForecastLimit(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{Now: fixedNow})

	var items []core.CatalogItem
	var sales []core.SaleRecord
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("ITEM-%02d", i)
		items = append(items, trackableItem(id, 20))
		// ITEM-00 earns the least, ITEM-11 the most.
		sales = append(sales, saleFor(id, int64(100*(i+1))))
	}

	bundle, err := svc.AnalyzeInventoryOptimization(context.Background(), items, sales, nil, core.BusinessContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bundle.ItemAnalyses) != 12 {
		t.Errorf("got %d analyses, want 12", len(bundle.ItemAnalyses))
	}
	if len(bundle.DemandForecasts) != 10 {
		t.Errorf("got %d forecasts, want 10", len(bundle.DemandForecasts))
	}
	if len(bundle.StockOptimizations) != 10 {
		t.Errorf("got %d optimizations, want 10", len(bundle.StockOptimizations))
	}

	forecasted := make(map[string]bool)
	for _, fc := range bundle.DemandForecasts {
		forecasted[fc.ItemID] = true
	}
	for _, id := range []string{"ITEM-00", "ITEM-01"} {
		if forecasted[id] {
			t.Errorf("%s is among the lowest earners and should not be forecast", id)
		}
	}
	for _, id := range []string{"ITEM-11", "ITEM-02"} {
		if !forecasted[id] {
			t.Errorf("%s should be within the forecast budget", id)
		}
	}
}

func TestIntelligenceService_CustomForecastLimit(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{ForecastLimit: 2, Now: fixedNow})

	items := []core.CatalogItem{trackableItem("A", 20), trackableItem("B", 20), trackableItem("C", 20)}
	sales := []core.SaleRecord{saleFor("A", 300), saleFor("B", 200), saleFor("C", 100)}

	bundle, err := svc.AnalyzeInventoryOptimization(context.Background(), items, sales, nil, core.BusinessContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bundle.DemandForecasts) != 2 {
		t.Fatalf("got %d forecasts, want 2", len(bundle.DemandForecasts))
	}
}

func TestIntelligenceService_OptimizationsSortedByStockoutRisk(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{Now: fixedNow})

	// A is nearly out of stock relative to its demand, C is comfortably covered.
	items := []core.CatalogItem{trackableItem("A", 1), trackableItem("B", 15), trackableItem("C", 500)}
	sales := []core.SaleRecord{saleFor("A", 500), saleFor("B", 400), saleFor("C", 300)}

	bundle, err := svc.AnalyzeInventoryOptimization(context.Background(), items, sales, nil, core.BusinessContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(bundle.StockOptimizations); i++ {
		prev := bundle.StockOptimizations[i-1].StockoutRisk
		cur := bundle.StockOptimizations[i].StockoutRisk
		if cur > prev {
			t.Fatalf("optimizations not sorted by stockout risk: %d before %d", prev, cur)
		}
	}
	if bundle.StockOptimizations[0].ItemID != "A" {
		t.Errorf("riskiest item = %s, want A", bundle.StockOptimizations[0].ItemID)
	}
}

// panickingMatcher simulates an internal pipeline fault.
type panickingMatcher struct{}

func (panickingMatcher) Matches(core.CatalogItem, core.ExpenseRecord) bool {
	panic("matcher blew up")
}

func TestIntelligenceService_InternalPanicBecomesAnalysisError(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{Matcher: panickingMatcher{}, Now: fixedNow})

	items := []core.CatalogItem{trackableItem("A", 20)}
	expenses := []core.ExpenseRecord{{Amount: decimal.NewFromInt(50), Description: "Item A restock"}}

	bundle, err := svc.AnalyzeInventoryOptimization(context.Background(), items, []core.SaleRecord{saleFor("A", 100)}, expenses, core.BusinessContext{})

	var aerr *core.AnalysisError
	if !errors.As(err, &aerr) {
		t.Fatalf("err = %v, want *AnalysisError", err)
	}
	if bundle != nil {
		t.Errorf("bundle = %+v, want nil", bundle)
	}
}

func TestIntelligenceService_AnalyzeItem(t *testing.T) {
	svc := core.NewIntelligenceService(nil, core.Config{Now: fixedNow})

	item := trackableItem("A", 20)
	analysis := svc.AnalyzeItem(item, []core.SaleRecord{saleFor("A", 100)}, nil)

	if analysis.ItemID != "A" {
		t.Errorf("item id = %s, want A", analysis.ItemID)
	}
	if analysis.TotalQuantitySold != 4 {
		t.Errorf("quantity sold = %v, want 4", analysis.TotalQuantitySold)
	}
}
