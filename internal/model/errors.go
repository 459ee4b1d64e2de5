package model

import "fmt"

// SyncError は同期パイプラインの統一エラーフォーマットを表す。
// どの段階で失敗したかを示すコードとカテゴリを含む。
type SyncError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: config, auth, fetch, persist
}

// Error はerrorインターフェースを実装する。
func (e *SyncError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeConfigMissing      = "CONFIG_MISSING"
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodeListingFetchFailed = "LISTING_FETCH_FAILED"
	ErrCodeImageFetchFailed   = "IMAGE_FETCH_FAILED"
	ErrCodePersistFailed      = "PERSIST_FAILED"
)

// NewConfigurationError は必須設定の欠落エラーを生成する。
// ネットワークアクセスを行う前の起動時検証で使用される。
func NewConfigurationError(detail string) *SyncError {
	return &SyncError{
		Code:     ErrCodeConfigMissing,
		Message:  fmt.Sprintf("必須の設定が不足しています: %s", detail),
		Category: "config",
	}
}

// NewAuthenticationError はトークン交換失敗エラーを生成する。
// ステータスコードとレスポンスボディを保持する。致命的エラーであり実行全体を中断する。
func NewAuthenticationError(status int, body string) *SyncError {
	return &SyncError{
		Code:     ErrCodeAuthFailed,
		Message:  fmt.Sprintf("アクセストークンの取得に失敗しました: status=%d body=%s", status, body),
		Category: "auth",
	}
}

// NewFetchError は出品リスト取得失敗エラーを生成する。
// 失敗したページのオフセットとステータスコードを含む。
// 部分的なカタログを受け入れないため、致命的エラーとして実行全体を中断する。
func NewFetchError(offset, status int) *SyncError {
	return &SyncError{
		Code:     ErrCodeListingFetchFailed,
		Message:  fmt.Sprintf("出品リストの取得に失敗しました: offset=%d status=%d", offset, status),
		Category: "fetch",
	}
}

// NewImageFetchError は出品画像取得失敗エラーを生成する。
// このエラーは呼び出し元でローカルに回復され、該当出品の画像リストが
// 空にデグレードされる。実行全体を中断することはない。
func NewImageFetchError(listingID int64, reason string) *SyncError {
	return &SyncError{
		Code:     ErrCodeImageFetchFailed,
		Message:  fmt.Sprintf("出品画像の取得に失敗しました: listing_id=%d reason=%s", listingID, reason),
		Category: "fetch",
	}
}

// NewPersistenceError はフィード書き込み失敗エラーを生成する。
// ディレクトリ作成またはファイル書き込みの失敗時に使用される。
// 計算済みのデータが保存できなかった場合は成功として扱わず、実行全体を中断する。
func NewPersistenceError(reason string) *SyncError {
	return &SyncError{
		Code:     ErrCodePersistFailed,
		Message:  fmt.Sprintf("フィードの永続化に失敗しました: %s", reason),
		Category: "persist",
	}
}
