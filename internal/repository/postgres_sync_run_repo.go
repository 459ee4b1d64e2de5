// Package repository はデータアクセス層を提供する。
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vitriny/bridgesync/internal/model"
)

// SyncRunRepository は同期実行履歴リポジトリのインターフェース。
type SyncRunRepository interface {
	// Insert は同期実行の履歴レコードを保存する。
	Insert(ctx context.Context, run *model.SyncRun) error
	// ListRecent は開始時刻の降順で直近の履歴レコードを取得する。
	ListRecent(ctx context.Context, limit int) ([]*model.SyncRun, error)
}

// PostgresSyncRunRepo はPostgreSQLを使用した同期実行履歴リポジトリ。
type PostgresSyncRunRepo struct {
	db *sql.DB
}

// NewPostgresSyncRunRepo はPostgresSyncRunRepoを生成する。
func NewPostgresSyncRunRepo(db *sql.DB) *PostgresSyncRunRepo {
	return &PostgresSyncRunRepo{db: db}
}

// Insert は同期実行の履歴レコードを保存する。
func (r *PostgresSyncRunRepo) Insert(ctx context.Context, run *model.SyncRun) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, shop_id, started_at, finished_at, product_count, image_failures, status, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.ShopID, run.StartedAt, run.FinishedAt,
		run.ProductCount, run.ImageFailures, string(run.Status), run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("同期履歴の保存に失敗しました: %w", err)
	}

	return nil
}

// ListRecent は開始時刻の降順で直近の履歴レコードを取得する。
func (r *PostgresSyncRunRepo) ListRecent(ctx context.Context, limit int) ([]*model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, shop_id, started_at, finished_at, product_count, image_failures, status, error_message
		 FROM sync_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("同期履歴の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var runs []*model.SyncRun
	for rows.Next() {
		run := &model.SyncRun{}
		var status string
		if err := rows.Scan(
			&run.ID, &run.ShopID, &run.StartedAt, &run.FinishedAt,
			&run.ProductCount, &run.ImageFailures, &status, &run.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("同期履歴の読み取りに失敗しました: %w", err)
		}
		run.Status = model.SyncRunStatus(status)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("同期履歴の走査に失敗しました: %w", err)
	}

	return runs, nil
}

// compile-time interface check
var _ SyncRunRepository = (*PostgresSyncRunRepo)(nil)
