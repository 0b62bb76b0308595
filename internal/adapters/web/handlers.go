package web

import (
	"encoding/json"
	"log"
	"net/http"

	"inventory-intelligence/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)
	r.Post("/api/intelligence/analyze", h.analyze)
	r.Get("/api/intelligence/items/{itemID}/performance", h.itemPerformance)

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// analyze handles POST /api/intelligence/analyze.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req app.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.CompanyCode == "" {
		writeError(w, r, "company_code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.AnalyzeInventory(r.Context(), req)
	if err != nil {
		log.Printf("analyze %s: %v", req.CompanyCode, err)
		writeAnalysisError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// itemPerformance handles GET /api/intelligence/items/{itemID}/performance.
func (h *Handler) itemPerformance(w http.ResponseWriter, r *http.Request) {
	companyCode := r.URL.Query().Get("company")
	if companyCode == "" {
		writeError(w, r, "company query parameter is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	itemID := chi.URLParam(r, "itemID")

	result, err := h.svc.GetItemPerformance(r.Context(), companyCode, itemID)
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}
