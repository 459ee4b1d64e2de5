// Package handler はフィード配信サーバーのHTTPハンドラーを提供する。
package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vitriny/bridgesync/internal/store"
)

// FeedHandler は生成済みフィードファイルを配信するHTTPハンドラー。
// フィードの生成はsyncコマンドが行い、このハンドラーは読み取り専用。
type FeedHandler struct {
	dataDir string
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(dataDir string) *FeedHandler {
	return &FeedHandler{dataDir: dataDir}
}

// ServePretty は整形済みフィードを配信する。
// GET /feed/products.json
func (h *FeedHandler) ServePretty(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, store.PrettyFileName)
}

// ServeCompact はコンパクトフィードを配信する。
// GET /feed/products.min.json
func (h *FeedHandler) ServeCompact(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, store.CompactFileName)
}

// serveFile はデータディレクトリ配下の固定ファイルを配信する。
// まだ同期が1回も実行されていない場合は404を返す。
func (h *FeedHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	path := filepath.Join(h.dataDir, name)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeAPIErrorResponse(w, http.StatusNotFound, apiErrorResponse{
				Code:    "FEED_NOT_FOUND",
				Message: "フィードがまだ生成されていません。",
			})
			return
		}
		writeAPIErrorResponse(w, http.StatusInternalServerError, apiErrorResponse{
			Code:    "FEED_READ_FAILED",
			Message: "フィードの読み取りに失敗しました。",
		})
		return
	}
	if info.IsDir() {
		writeAPIErrorResponse(w, http.StatusNotFound, apiErrorResponse{
			Code:    "FEED_NOT_FOUND",
			Message: "フィードがまだ生成されていません。",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeFile(w, r, path)
}
