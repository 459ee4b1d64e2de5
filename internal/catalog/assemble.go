package catalog

import (
	"sort"
	"time"

	"github.com/vitriny/bridgesync/internal/model"
)

// Assemble は正規化商品列をソートしてフィードエンベロープに包む。
// ソートキーはタイトルの辞書順比較で、同値の場合は入力時の順序を保持する
// （安定ソート）。内容が変わらない限り実行ごとのdiffが安定する。
// Countは常にProductsの件数と一致する。入力スライスは変更しない。
func Assemble(shopName, shopID string, products []model.Product, now time.Time) model.Feed {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Title < sorted[j].Title
	})

	return model.Feed{
		Shop:      shopName,
		ShopID:    shopID,
		UpdatedAt: now.UTC(),
		Count:     len(sorted),
		Products:  sorted,
	}
}
