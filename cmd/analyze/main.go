// Command analyze runs one inventory intelligence pass for a company and
// prints the result bundle as JSON. Useful for smoke-testing a deployment
// without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"inventory-intelligence/internal/ai"
	"inventory-intelligence/internal/app"
	"inventory-intelligence/internal/core"
	"inventory-intelligence/internal/db"
	"inventory-intelligence/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	company := flag.String("company", "", "company code to analyze")
	sector := flag.String("sector", "", "business sector hint for the forecast oracle")
	historyDays := flag.Int("history-days", 0, "limit history to the trailing N days (0 = all)")
	fallbackOnly := flag.Bool("fallback-only", false, "skip the oracle and use historical-average forecasts")
	flag.Parse()

	if *company == "" {
		log.Fatal("usage: analyze -company <code> [-sector <sector>] [-history-days <n>] [-fallback-only]")
	}

	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var oracle core.ForecastOracle
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && !*fallbackOnly {
		oracle = ai.NewOracle(apiKey)
	}

	intel := core.NewIntelligenceService(oracle, core.Config{})
	svc := app.NewAppService(store.NewHistoryRepository(pool), intel, os.Getenv("BUSINESS_SECTOR"))

	result, err := svc.AnalyzeInventory(ctx, app.AnalyzeRequest{
		CompanyCode:    *company,
		BusinessSector: *sector,
		HistoryDays:    *historyDays,
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode: %v", err)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}
