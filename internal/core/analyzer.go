package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ── Expense matching ──────────────────────────────────────────────────────────

// ExpenseMatcher decides whether an expense record is a restock purchase for
// a given catalog item. Expense rows carry no item foreign key, so matching
// is a policy choice, not a join.
type ExpenseMatcher interface {
	Matches(item CatalogItem, expense ExpenseRecord) bool
}

// NameSubstringMatcher matches an expense whose description contains the item
// name, case-insensitively. Prone to false positives on short or generic item
// names; swap in an exact-join matcher when the surrounding system records
// item references on expenses.
type NameSubstringMatcher struct{}

func (NameSubstringMatcher) Matches(item CatalogItem, expense ExpenseRecord) bool {
	if item.Name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(expense.Description), strings.ToLower(item.Name))
}

// ── ItemPerformanceAnalyzer ───────────────────────────────────────────────────

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// trendMinSales is the minimum history needed before a trend is claimed.
const trendMinSales = 4

// trendThresholdPct is the half-over-half growth rate beyond which the trend
// is called growing (positive) or declining (negative).
const trendThresholdPct = 20.0

// ItemPerformanceAnalyzer derives historical sales and purchase metrics for
// one catalog item. It performs no I/O and is deterministic for fixed inputs.
type ItemPerformanceAnalyzer struct {
	matcher ExpenseMatcher
}

// NewItemPerformanceAnalyzer builds an analyzer. A nil matcher defaults to
// NameSubstringMatcher.
func NewItemPerformanceAnalyzer(matcher ExpenseMatcher) *ItemPerformanceAnalyzer {
	if matcher == nil {
		matcher = NameSubstringMatcher{}
	}
	return &ItemPerformanceAnalyzer{matcher: matcher}
}

// Analyze computes the ItemPerformanceAnalysis for item from the full sale
// and expense history. Records for other items are filtered out here, so
// callers can pass the same slices for every item.
func (a *ItemPerformanceAnalyzer) Analyze(item CatalogItem, sales []SaleRecord, expenses []ExpenseRecord) ItemPerformanceAnalysis {
	itemSales := make([]SaleRecord, 0, len(sales))
	for _, s := range sales {
		if s.ItemID == item.ID {
			itemSales = append(itemSales, s)
		}
	}
	sort.Slice(itemSales, func(i, j int) bool { return itemSales[i].Date.Before(itemSales[j].Date) })

	analysis := ItemPerformanceAnalysis{
		ItemID:       item.ID,
		ItemName:     item.Name,
		CurrentStock: item.CurrentStock,
		ReorderLevel: item.ReorderLevel,
		UnitCost:     item.UnitCost,
		UnitPrice:    item.UnitPrice,
		MonthlySales: map[string]float64{},
		SalesTrend:   TrendInsufficientData,
	}

	var totalQty float64
	totalRevenue := decimal.Zero
	totalCost := decimal.Zero
	for _, s := range itemSales {
		totalQty += s.Quantity
		totalRevenue = totalRevenue.Add(s.Revenue)

		costPrice := s.CostPriceAtSale
		if costPrice.IsZero() {
			// Historical cost unknown; approximate with the current unit cost.
			costPrice = item.UnitCost
		}
		totalCost = totalCost.Add(costPrice.Mul(decimal.NewFromFloat(s.Quantity)))

		analysis.MonthlySales[s.Date.Format("2006-01")] += s.Quantity
	}

	analysis.TotalQuantitySold = totalQty
	analysis.TotalRevenue = totalRevenue
	analysis.GrossProfit = totalRevenue.Sub(totalCost)
	if totalRevenue.IsPositive() {
		analysis.ProfitMarginPct, _ = analysis.GrossProfit.Div(totalRevenue).Mul(decimal.NewFromInt(100)).Float64()
	}

	for _, e := range expenses {
		if a.matcher.Matches(item, e) {
			analysis.TotalPurchaseSpend = analysis.TotalPurchaseSpend.Add(e.Amount)
		}
	}

	if len(itemSales) > 0 {
		daysSpan := itemSales[len(itemSales)-1].Date.Sub(itemSales[0].Date).Hours() / 24
		if daysSpan < 1 {
			daysSpan = 1
		}
		analysis.DailyVelocity = totalQty / daysSpan
		analysis.WeeklyVelocity = analysis.DailyVelocity * daysPerWeek
		analysis.MonthlyVelocity = analysis.DailyVelocity * daysPerMonth
	}

	if analysis.DailyVelocity > 0 {
		analysis.DaysOfStockRemaining = FiniteDays(float64(item.CurrentStock) / analysis.DailyVelocity)
	} else {
		analysis.DaysOfStockRemaining = UnboundedDays()
	}

	analysis.SalesTrend = salesTrend(itemSales)

	stockDivisor := float64(item.CurrentStock)
	if stockDivisor < 1 {
		stockDivisor = 1
	}
	analysis.StockTurnover = totalQty / stockDivisor

	return analysis
}

// salesTrend compares average quantity per sale between the first and second
// halves of the date-sorted history.
func salesTrend(sorted []SaleRecord) SalesTrend {
	if len(sorted) < trendMinSales {
		return TrendInsufficientData
	}

	mid := len(sorted) / 2
	firstAvg := averageQuantity(sorted[:mid])
	secondAvg := averageQuantity(sorted[mid:])

	if firstAvg == 0 {
		if secondAvg > 0 {
			return TrendGrowing
		}
		return TrendStable
	}

	growthPct := (secondAvg - firstAvg) / firstAvg * 100
	switch {
	case growthPct > trendThresholdPct:
		return TrendGrowing
	case growthPct < -trendThresholdPct:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func averageQuantity(sales []SaleRecord) float64 {
	if len(sales) == 0 {
		return 0
	}
	var total float64
	for _, s := range sales {
		total += s.Quantity
	}
	return total / float64(len(sales))
}
