package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitriny/bridgesync/internal/metrics"
	"github.com/vitriny/bridgesync/internal/middleware"
	"github.com/vitriny/bridgesync/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger            *slog.Logger
	DataDir           string
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// History は任意。nilの場合は/api/runsをマウントしない。
	History repository.SyncRunRepository

	// Gatherer は任意。nilの場合は/metricsをマウントしない。
	Gatherer prometheus.Gatherer
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → RateLimit
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	feedHandler := NewFeedHandler(deps.DataDir)

	r.Get("/healthz", Healthz)

	r.Route("/feed", func(r chi.Router) {
		r.Get("/products.json", feedHandler.ServePretty)
		r.Get("/products.min.json", feedHandler.ServeCompact)
	})

	if deps.History != nil {
		runsHandler := NewRunsHandler(deps.History, deps.Logger)
		r.Get("/api/runs", runsHandler.ListRuns)
	}

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}

// Healthz はヘルスチェックエンドポイント。
// GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
