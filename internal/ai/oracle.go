package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"inventory-intelligence/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Oracle implements core.ForecastOracle on top of the OpenAI Responses API
// with structured output. The response schema is reflected from
// core.ForecastResponse so the wire contract and the Go type cannot drift.
type Oracle struct {
	client *openai.Client
	model  shared.ResponsesModel
}

func NewOracle(apiKey string) *Oracle {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Oracle{client: &client, model: shared.ResponsesModel(shared.ChatModelGPT4o)}
}

// ForecastDemand requests a 30/60/90-day demand forecast for one analyzed
// item. It returns the parsed response or an error; the caller owns fallback
// behavior, so no retry or masking happens here.
func (o *Oracle) ForecastDemand(ctx context.Context, analysis core.ItemPerformanceAnalysis, bctx core.BusinessContext) (*core.ForecastResponse, error) {
	schemaJSON, err := json.Marshal(forecastSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: o.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(buildPrompt(analysis, bctx)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "demand_forecast",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A 30/60/90-day demand forecast for one inventory item"),
				},
			},
		},
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var forecast core.ForecastResponse
	if err := json.Unmarshal([]byte(content), &forecast); err != nil {
		return nil, fmt.Errorf("failed to parse forecast: %w", err)
	}
	return &forecast, nil
}

// buildPrompt embeds the item's numeric summary so the model forecasts from
// actual history rather than the item name alone.
func buildPrompt(a core.ItemPerformanceAnalysis, bctx core.BusinessContext) string {
	sector := bctx.BusinessSector
	if sector == "" {
		sector = "general retail"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a demand-planning analyst for a small business in the %s sector.
Forecast unit demand for the inventory item below over the next 30, 60 and 90 days.
Rules:
1. Demand figures are cumulative unit quantities and must be >= 0.
2. demand_variability must be exactly one of: low, medium, high.
3. confidence_level is 0-100.
4. seasonal_adjustment is a multiplier (1.0 = no seasonal effect).
5. Keep forecast_reasoning to one or two sentences.

Item: %s
Current stock: %d units (reorder level %d)
Total sold: %.1f units for revenue %s (gross margin %.1f%%)
Velocity: %.2f/day, %.2f/week, %.2f/month
Sales trend: %s
Stock turnover: %.2f
`,
		sector, a.ItemName,
		a.CurrentStock, a.ReorderLevel,
		a.TotalQuantitySold, a.TotalRevenue.StringFixed(2), a.ProfitMarginPct,
		a.DailyVelocity, a.WeeklyVelocity, a.MonthlyVelocity,
		a.SalesTrend, a.StockTurnover,
	)

	if len(a.MonthlySales) > 0 {
		b.WriteString("Monthly sales history (units):\n")
		for _, month := range sortedMonths(a.MonthlySales) {
			fmt.Fprintf(&b, "  %s: %.1f\n", month, a.MonthlySales[month])
		}
	}
	return b.String()
}

func sortedMonths(histogram map[string]float64) []string {
	months := make([]string, 0, len(histogram))
	for m := range histogram {
		months = append(months, m)
	}
	// Month labels are YYYY-MM, so lexical order is chronological.
	sort.Strings(months)
	return months
}

func forecastSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ForecastResponse
	return reflector.Reflect(v)
}
