// Package model はドメインモデルを定義する。
package model

import "time"

// Product は正規化された商品レコードを表す。
// フィードに永続化される単位であり、1つのアクティブな出品に対応する。
// PriceとCurrencyは元データに価格情報がない場合にnullとなる。
type Product struct {
	ID       int64    `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Price    *float64 `json:"price"`
	Currency *string  `json:"currency"`
	Images   []string `json:"images"`
}

// Feed は1回の同期で生成される商品フィードのスナップショットを表す。
// Countは常にProductsの件数と一致する。
// 実行ごとに新規生成され、前回のフィードを完全に置き換える（マージしない）。
type Feed struct {
	Shop      string    `json:"shop"`
	ShopID    string    `json:"shop_id"`
	UpdatedAt time.Time `json:"updated_at"`
	Count     int       `json:"count"`
	Products  []Product `json:"products"`
}
