package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vitriny/bridgesync/internal/model"
	"github.com/vitriny/bridgesync/internal/repository"
)

// defaultRunsLimit は/api/runsのデフォルト取得件数。
const defaultRunsLimit = 20

// maxRunsLimit は/api/runsで指定可能な最大取得件数。
const maxRunsLimit = 100

// RunsHandler は同期実行履歴のHTTPハンドラー。
// HISTORY_DATABASE_URLが設定されている場合のみルーティングに組み込まれる。
type RunsHandler struct {
	repo   repository.SyncRunRepository
	logger *slog.Logger
}

// NewRunsHandler はRunsHandlerを生成する。
func NewRunsHandler(repo repository.SyncRunRepository, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{repo: repo, logger: logger}
}

// syncRunResponse は同期実行履歴のAPIレスポンス。
type syncRunResponse struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	ProductCount  int       `json:"product_count"`
	ImageFailures int       `json:"image_failures"`
	Status        string    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// ListRuns は直近の同期実行履歴を開始時刻の降順で返す。
// GET /api/runs?limit=20
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, apiErrorResponse{
				Code:    "INVALID_REQUEST",
				Message: "limitは正の整数で指定してください。",
			})
			return
		}
		limit = parsed
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("同期履歴の取得に失敗しました", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusInternalServerError, apiErrorResponse{
			Code:    "HISTORY_FETCH_FAILED",
			Message: "同期履歴の取得に失敗しました。",
		})
		return
	}

	responses := make([]syncRunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toSyncRunResponse(run))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count": len(responses),
		"runs":  responses,
	})
}

// toSyncRunResponse はモデルをAPIレスポンスに変換する。
func toSyncRunResponse(run *model.SyncRun) syncRunResponse {
	return syncRunResponse{
		ID:            run.ID,
		ShopID:        run.ShopID,
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
		ProductCount:  run.ProductCount,
		ImageFailures: run.ImageFailures,
		Status:        string(run.Status),
		ErrorMessage:  run.ErrorMessage,
	}
}
