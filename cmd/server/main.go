package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	webAdapter "inventory-intelligence/internal/adapters/web"
	"inventory-intelligence/internal/ai"
	"inventory-intelligence/internal/app"
	"inventory-intelligence/internal/core"
	"inventory-intelligence/internal/db"
	"inventory-intelligence/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var oracle core.ForecastOracle
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		oracle = ai.NewOracle(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set; demand forecasts will use the historical-average fallback")
	}

	cfg := core.Config{}
	if v := os.Getenv("FORECAST_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			cfg.ForecastLimit = limit
		}
	}
	intel := core.NewIntelligenceService(oracle, cfg)

	repo := store.NewHistoryRepository(pool)
	svc := app.NewAppService(repo, intel, os.Getenv("BUSINESS_SECTOR"))

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	handler := webAdapter.NewHandler(svc, os.Getenv("ALLOWED_ORIGINS"))

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
