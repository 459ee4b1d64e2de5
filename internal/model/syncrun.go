package model

import "time"

// SyncRunStatus は同期実行の最終状態を表す。
type SyncRunStatus string

const (
	// SyncRunStatusSuccess は同期が正常に完了した状態。
	// 個別の出品が画像なしにデグレードした場合も成功に含まれる。
	SyncRunStatusSuccess SyncRunStatus = "success"
	// SyncRunStatusFailed は致命的エラーにより同期が中断された状態。
	SyncRunStatusFailed SyncRunStatus = "failed"
)

// SyncRun は1回の同期実行の履歴レコードを表す。
// HISTORY_DATABASE_URLが設定されている場合のみ永続化される。
type SyncRun struct {
	ID            string
	ShopID        string
	StartedAt     time.Time
	FinishedAt    time.Time
	ProductCount  int
	ImageFailures int
	Status        SyncRunStatus
	ErrorMessage  string
}
