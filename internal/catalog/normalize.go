// Package catalog は出品データの正規化とフィードの組み立てを提供する。
// この層の処理はすべて純粋なインメモリ変換であり、ネットワークI/Oを行わない。
package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vitriny/bridgesync/internal/etsy"
	"github.com/vitriny/bridgesync/internal/model"
	"github.com/vitriny/bridgesync/internal/security"
)

// quoteReplacer はスラッグ生成前に除去する引用符（ストレート/カーリー両方）。
var quoteReplacer = strings.NewReplacer(
	"'", "", `"`, "",
	"‘", "", "’", "", // ‘ ’
	"“", "", "”", "", // “ ”
)

// nonAlnumPattern は英数字以外の連続をハイフン1つに畳み込むためのパターン。
var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify はタイトルからURLセーフなスラッグを生成する。
// 小文字化、引用符の除去、英数字以外の連続のハイフン化、前後ハイフンの除去を行う。
// 結果が空になる場合は空文字列を返す（フォールバックは呼び出し元が行う）。
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = quoteReplacer.Replace(s)
	s = nonAlnumPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalizer は出品レコードと解決済み画像URLから正規化商品を生成する。
// ステートレスな純粋変換であり、整形式の入力に対して失敗しない。
type Normalizer struct {
	sanitizer security.TitleSanitizerService
}

// NewNormalizer はNormalizerの新しいインスタンスを生成する。
func NewNormalizer(sanitizer security.TitleSanitizerService) *Normalizer {
	return &Normalizer{sanitizer: sanitizer}
}

// Normalize は出品と画像URL列を正規化商品レコードに変換する。
// スラッグはタイトル由来が空になる場合にlisting idの文字列表現へフォールバック
// するため、常に非空である。価格情報が欠落している場合はpriceとcurrencyが
// 両方nullにデグレードし、エラーにはならない。
func (n *Normalizer) Normalize(listing etsy.Listing, imageURLs []string) model.Product {
	title := n.sanitizer.Sanitize(listing.Title)

	slug := Slugify(title)
	if slug == "" {
		slug = strconv.FormatInt(listing.ListingID, 10)
	}

	price, currency := normalizePrice(listing.Price)

	// JSONで null ではなく [] を出力するため空スライスを保証する
	if imageURLs == nil {
		imageURLs = []string{}
	}

	return model.Product{
		ID:       listing.ListingID,
		Slug:     slug,
		Title:    title,
		URL:      listing.URL,
		Price:    price,
		Currency: currency,
		Images:   imageURLs,
	}
}

// normalizePrice はamount/divisorの組から十進価格を導出する。
// amountが0または欠落の場合は価格情報なしとして両方nilを返す。
// divisorが未指定の場合は2として扱う。
func normalizePrice(p etsy.Price) (*float64, *string) {
	if p.Amount == 0 {
		return nil, nil
	}

	divisor := p.Divisor
	if divisor <= 0 {
		divisor = 2
	}

	price := float64(p.Amount) / math.Pow10(int(divisor))

	var currency *string
	if p.CurrencyCode != "" {
		c := p.CurrencyCode
		currency = &c
	}

	return &price, currency
}
