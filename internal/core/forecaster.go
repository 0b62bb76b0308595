package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ── Oracle contract ───────────────────────────────────────────────────────────

// ForecastResponse is the JSON object the text-generation oracle must return
// for one item. The jsonschema tags drive the structured-output schema sent
// with the request.
type ForecastResponse struct {
	Next30DaysDemand   float64 `json:"next_30_days_demand" jsonschema_description:"Forecast unit demand over the next 30 days. Must be >= 0."`
	Next60DaysDemand   float64 `json:"next_60_days_demand" jsonschema_description:"Forecast unit demand over the next 60 days (cumulative). Must be >= 0."`
	Next90DaysDemand   float64 `json:"next_90_days_demand" jsonschema_description:"Forecast unit demand over the next 90 days (cumulative). Must be >= 0."`
	SeasonalAdjustment float64 `json:"seasonal_adjustment" jsonschema_description:"Seasonal demand multiplier. 1.0 means no seasonal effect."`
	ConfidenceLevel    float64 `json:"confidence_level" jsonschema_description:"Confidence in this forecast, 0-100."`
	DemandVariability  string  `json:"demand_variability" jsonschema_description:"Expected demand variability: one of 'low', 'medium', 'high'."`
	ForecastReasoning  string  `json:"forecast_reasoning" jsonschema_description:"One or two sentences explaining the forecast."`
}

// Normalize cleans up common formatting slack in oracle output.
func (f *ForecastResponse) Normalize() {
	f.DemandVariability = strings.ToLower(strings.TrimSpace(f.DemandVariability))
	if f.SeasonalAdjustment == 0 {
		f.SeasonalAdjustment = 1.0
	}
}

// Validate enforces the numeric contract of the forecast schema. Any
// violation is treated as oracle unavailability by the forecaster.
func (f *ForecastResponse) Validate() error {
	if f.Next30DaysDemand < 0 || f.Next60DaysDemand < 0 || f.Next90DaysDemand < 0 {
		return errors.New("demand quantities must be non-negative")
	}
	if f.ConfidenceLevel < 0 || f.ConfidenceLevel > 100 {
		return fmt.Errorf("confidence level %v outside 0-100", f.ConfidenceLevel)
	}
	if f.SeasonalAdjustment <= 0 {
		return fmt.Errorf("seasonal adjustment must be > 0, got %v", f.SeasonalAdjustment)
	}
	switch DemandVariability(f.DemandVariability) {
	case VariabilityLow, VariabilityMedium, VariabilityHigh:
	default:
		return fmt.Errorf("unknown demand variability %q", f.DemandVariability)
	}
	return nil
}

// ForecastOracle is the one external capability the pipeline depends on: a
// text-generation backend that returns a demand forecast conforming to the
// ForecastResponse schema, or an error.
type ForecastOracle interface {
	ForecastDemand(ctx context.Context, analysis ItemPerformanceAnalysis, bctx BusinessContext) (*ForecastResponse, error)
}

// ── DemandForecaster ──────────────────────────────────────────────────────────

const defaultForecastParallelism = 4

// fallbackReasoning discloses the deterministic origin of a fallback forecast.
const fallbackReasoning = "Based on historical average due to AI unavailability"

// DemandForecaster turns ranked item analyses into demand forecasts. Each
// item is forecast independently: an oracle failure for one item never
// affects another, and a failed or malformed response falls back to the
// historical-average forecast. A nil oracle forecasts everything via the
// fallback, so the pipeline stays usable without an API key.
type DemandForecaster struct {
	oracle      ForecastOracle
	now         func() time.Time
	parallelism int
}

// NewDemandForecaster builds a forecaster. now may be nil for time.Now.
func NewDemandForecaster(oracle ForecastOracle, now func() time.Time) *DemandForecaster {
	if now == nil {
		now = time.Now
	}
	return &DemandForecaster{oracle: oracle, now: now, parallelism: defaultForecastParallelism}
}

// ForecastAll produces exactly one DemandForecast per input analysis, in
// input order. Oracle calls fan out with bounded parallelism.
func (f *DemandForecaster) ForecastAll(ctx context.Context, analyses []ItemPerformanceAnalysis, bctx BusinessContext) []DemandForecast {
	forecasts := make([]DemandForecast, len(analyses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.parallelism)
	for i := range analyses {
		i := i
		g.Go(func() error {
			forecasts[i] = f.forecastOne(gctx, analyses[i], bctx)
			return nil
		})
	}
	// Goroutines never return errors; failures are absorbed per item.
	_ = g.Wait()

	return forecasts
}

func (f *DemandForecaster) forecastOne(ctx context.Context, analysis ItemPerformanceAnalysis, bctx BusinessContext) (forecast DemandForecast) {
	if f.oracle == nil {
		return f.fallbackForecast(analysis)
	}

	// A panicking oracle implementation counts as unavailable, same as an
	// error return. The panic must not escape the fan-out goroutine.
	defer func() {
		if rv := recover(); rv != nil {
			forecast = f.fallbackForecast(analysis)
		}
	}()

	resp, err := f.oracle.ForecastDemand(ctx, analysis, bctx)
	if err != nil || resp == nil {
		return f.fallbackForecast(analysis)
	}

	resp.Normalize()
	if err := resp.Validate(); err != nil {
		return f.fallbackForecast(analysis)
	}

	return DemandForecast{
		ItemPerformanceAnalysis: analysis,
		Next30DaysDemand:        resp.Next30DaysDemand,
		Next60DaysDemand:        resp.Next60DaysDemand,
		Next90DaysDemand:        resp.Next90DaysDemand,
		SeasonalAdjustment:      resp.SeasonalAdjustment,
		ConfidenceLevel:         resp.ConfidenceLevel,
		DemandVariability:       DemandVariability(resp.DemandVariability),
		ForecastReasoning:       resp.ForecastReasoning,
		ForecastDate:            f.now(),
	}
}

// fallbackForecast projects the historical monthly velocity flat across the
// 30/60/90-day horizons.
func (f *DemandForecaster) fallbackForecast(analysis ItemPerformanceAnalysis) DemandForecast {
	return DemandForecast{
		ItemPerformanceAnalysis: analysis,
		Next30DaysDemand:        analysis.MonthlyVelocity,
		Next60DaysDemand:        analysis.MonthlyVelocity * 2,
		Next90DaysDemand:        analysis.MonthlyVelocity * 3,
		SeasonalAdjustment:      1.0,
		ConfidenceLevel:         60,
		DemandVariability:       VariabilityMedium,
		ForecastReasoning:       fallbackReasoning,
		ForecastDate:            f.now(),
	}
}
