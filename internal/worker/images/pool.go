// Package images は出品画像の並列取得ワーカープールを提供する。
// 固定数のワーカーが共有カーソルからインデックスを排他的に請求し、
// 出品ごとの画像セットを取得する。個別出品の失敗は画像なしへの
// デグレードとして回復され、プール全体を中断することはない。
package images

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vitriny/bridgesync/internal/etsy"
)

// defaultConcurrency は同時に実行されるワーカー数のデフォルト値。
const defaultConcurrency = 6

// ImageLister は出品画像取得のインターフェース。
// テスト時にモックに差し替え可能。
type ImageLister interface {
	ListingImages(ctx context.Context, listingID int64) ([]etsy.Image, error)
}

// URLValidator は画像URLの検証インターフェース。
// nilの場合は検証をスキップする。
type URLValidator interface {
	ValidateImageURL(rawURL string) error
}

// FailureRecorder は画像取得失敗をメトリクスに記録するインターフェース。
// nilの場合は記録しない。
type FailureRecorder interface {
	RecordImageFetchFailure()
}

// Pool は出品画像取得のワーカープール。
// 同時実行数の上限を超えて画像取得が並列化されることはない。
type Pool struct {
	lister      ImageLister
	guard       URLValidator
	metrics     FailureRecorder
	logger      *slog.Logger
	concurrency int
}

// NewPool はPoolの新しいインスタンスを生成する。
// concurrencyが0以下の場合はデフォルト値6を使用する。
func NewPool(lister ImageLister, guard URLValidator, metrics FailureRecorder, logger *slog.Logger, concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pool{
		lister:      lister,
		guard:       guard,
		metrics:     metrics,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run はすべての出品の画像URL列を取得し、入力と同じインデックスで返す。
// ちょうどconcurrency個のワーカーを起動し、各ワーカーはアトミックな
// カーソルで次の未請求インデックスを請求して処理を完了してから次を請求する。
// 同一インデックスが2回処理されることはなく、全インデックスが必ず1回処理される。
// すべてのワーカーの完了を待ってから返る（単一のブロッキング合流点）。
// 2番目の戻り値はデグレードした（画像なしにフォールバックした）出品数。
func (p *Pool) Run(ctx context.Context, listings []etsy.Listing) ([][]string, int) {
	results := make([][]string, len(listings))

	var cursor atomic.Int64
	var degraded atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < p.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(listings) {
					return
				}

				listing := listings[idx]
				urls, err := p.fetchOne(ctx, listing)
				if err != nil {
					// 個別失敗は画像なしにデグレードして続行する
					p.logger.Warn("出品画像の取得に失敗したため画像なしで続行します",
						slog.Int64("listing_id", listing.ListingID),
						slog.String("error", err.Error()),
					)
					degraded.Add(1)
					if p.metrics != nil {
						p.metrics.RecordImageFetchFailure()
					}
					urls = []string{}
				}
				results[idx] = urls
			}
		}()
	}

	wg.Wait()

	return results, int(degraded.Load())
}

// fetchOne は1出品の画像レコードを取得し、解像度の優先順位で
// 1画像につき1URLに縮約する。どの解像度フィールドも持たないレコードは
// 除外される。検証に失敗したURLはフィードに含めない。
func (p *Pool) fetchOne(ctx context.Context, listing etsy.Listing) ([]string, error) {
	records, err := p.lister.ListingImages(ctx, listing.ListingID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(records))
	for _, record := range records {
		u := record.PreferredURL()
		if u == "" {
			continue
		}
		if p.guard != nil {
			if err := p.guard.ValidateImageURL(u); err != nil {
				p.logger.Warn("検証に失敗した画像URLをフィードから除外します",
					slog.Int64("listing_id", listing.ListingID),
					slog.String("url", u),
					slog.String("error", err.Error()),
				)
				continue
			}
		}
		urls = append(urls, u)
	}

	return urls, nil
}
