// Package sync はカタログ同期パイプラインのオーケストレーションを提供する。
// 認証、出品取得、画像解決、正規化、フィード組み立て、永続化を
// この順序で実行し、最初の致命的エラーで実行全体を中断する。
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vitriny/bridgesync/internal/catalog"
	"github.com/vitriny/bridgesync/internal/etsy"
	"github.com/vitriny/bridgesync/internal/model"
	"github.com/vitriny/bridgesync/internal/repository"
)

// MarketplaceClient はマーケットプレイスAPIへのアクセスを抽象化する
// インターフェース。テスト時にモックに差し替え可能。
type MarketplaceClient interface {
	// Authenticate はリフレッシュトークンをアクセストークンに交換する。
	Authenticate(ctx context.Context) error
	// ActiveListings はショップの全アクティブ出品を取得する。
	ActiveListings(ctx context.Context) ([]etsy.Listing, error)
}

// ImageResolver は出品列に対応する画像URL列を解決するインターフェース。
// 戻り値の最初のスライスは入力と同じインデックスで対応し、
// 2番目の戻り値は画像なしにデグレードした出品数。
type ImageResolver interface {
	Run(ctx context.Context, listings []etsy.Listing) ([][]string, int)
}

// ProductNormalizer は出品と画像URL列を正規化商品に変換するインターフェース。
type ProductNormalizer interface {
	Normalize(listing etsy.Listing, imageURLs []string) model.Product
}

// FeedWriter はフィードの永続化インターフェース。
type FeedWriter interface {
	Write(feed *model.Feed) error
}

// Recorder は同期実行のメトリクスを記録するインターフェース。
// nilの場合は記録しない。
type Recorder interface {
	RecordListingsFetched(count int)
	RecordProductsWritten(count int)
	RecordSyncDuration(duration time.Duration)
	RecordSyncRun(status string)
}

// Service は同期パイプラインのオーケストレーター。
// リトライは行わない: 失敗した実行の成果物は前回の正常なフィードのまま残り、
// 次回の実行が全件を取得し直す。
type Service struct {
	client     MarketplaceClient
	resolver   ImageResolver
	normalizer ProductNormalizer
	writer     FeedWriter
	history    repository.SyncRunRepository
	metrics    Recorder
	logger     *slog.Logger

	shopName string
	shopID   string

	// テスト用に差し替え可能な現在時刻
	now func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// historyとmetricsはnilを許容する（それぞれ履歴保存とメトリクス記録をスキップ）。
func NewService(
	client MarketplaceClient,
	resolver ImageResolver,
	normalizer ProductNormalizer,
	writer FeedWriter,
	history repository.SyncRunRepository,
	metrics Recorder,
	logger *slog.Logger,
	shopName, shopID string,
) *Service {
	return &Service{
		client:     client,
		resolver:   resolver,
		normalizer: normalizer,
		writer:     writer,
		history:    history,
		metrics:    metrics,
		logger:     logger,
		shopName:   shopName,
		shopID:     shopID,
		now:        time.Now,
	}
}

// Run はカタログ同期を1回実行する。
// 認証・出品取得・永続化の失敗は致命的エラーとして即座に返す。
// 個別出品の画像取得失敗はデグレードとして回復され、エラーにはならない。
// 成功・失敗いずれの場合も履歴リポジトリが設定されていれば実行記録を残す。
func (s *Service) Run(ctx context.Context) error {
	started := s.now()

	s.logger.Info("カタログ同期を開始します",
		slog.String("shop", s.shopName),
		slog.String("shop_id", s.shopID),
	)

	if err := s.client.Authenticate(ctx); err != nil {
		s.finish(ctx, started, 0, 0, err)
		return err
	}

	listings, err := s.client.ActiveListings(ctx)
	if err != nil {
		s.finish(ctx, started, 0, 0, err)
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordListingsFetched(len(listings))
	}

	imageURLs, degraded := s.resolver.Run(ctx, listings)

	products := make([]model.Product, len(listings))
	for i, listing := range listings {
		products[i] = s.normalizer.Normalize(listing, imageURLs[i])
	}

	feed := catalog.Assemble(s.shopName, s.shopID, products, s.now())

	if err := s.writer.Write(&feed); err != nil {
		s.finish(ctx, started, len(products), degraded, err)
		return err
	}

	s.finish(ctx, started, len(products), degraded, nil)

	s.logger.Info("カタログ同期が完了しました",
		slog.Int("product_count", len(products)),
		slog.Int("degraded_count", degraded),
		slog.Float64("duration_ms", float64(time.Since(started).Milliseconds())),
	)

	return nil
}

// finish は実行結果のメトリクス記録と履歴保存を行う。
// 履歴保存の失敗は同期結果に影響しない（ログのみ）。
func (s *Service) finish(ctx context.Context, started time.Time, productCount, degraded int, runErr error) {
	finished := s.now()
	status := model.SyncRunStatusSuccess
	errorMessage := ""
	if runErr != nil {
		status = model.SyncRunStatusFailed
		errorMessage = runErr.Error()
	}

	if s.metrics != nil {
		s.metrics.RecordSyncRun(string(status))
		s.metrics.RecordSyncDuration(finished.Sub(started))
		if runErr == nil {
			s.metrics.RecordProductsWritten(productCount)
		}
	}

	if s.history == nil {
		return
	}

	run := &model.SyncRun{
		ID:            uuid.New().String(),
		ShopID:        s.shopID,
		StartedAt:     started,
		FinishedAt:    finished,
		ProductCount:  productCount,
		ImageFailures: degraded,
		Status:        status,
		ErrorMessage:  errorMessage,
	}
	if err := s.history.Insert(ctx, run); err != nil {
		s.logger.Warn("同期履歴の保存に失敗しましたが同期結果には影響しません",
			slog.String("run_id", run.ID),
			slog.String("error", err.Error()),
		)
	}
}

var _ ProductNormalizer = (*catalog.Normalizer)(nil)
