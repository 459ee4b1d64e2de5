package handler

import (
	"encoding/json"
	"net/http"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAPIErrorResponse はエラーレスポンスをJSONで書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr apiErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(apiErr)
}
