package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vitriny/bridgesync/internal/model"
)

// ActiveListings はショップのアクティブな出品をすべて取得する。
// ページサイズ単位でoffsetを進め、1ページの件数がページサイズ未満になった時点で
// 打ち切る。カタログ件数がページサイズのちょうど倍数の場合は最後に空ページを
// 1回取得してから正常終了する。
// いずれかのページの取得に失敗した場合は致命的エラーを返す。
// 部分的なカタログを返すことはない。
// 上流が重複したlisting_idを返した場合は最初の出現のみ採用する。
func (c *Client) ActiveListings(ctx context.Context) ([]Listing, error) {
	pageSize := c.config.PageSize

	var listings []Listing
	seen := make(map[int64]bool)
	offset := 0

	for {
		page, err := c.fetchListingsPage(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}

		for _, l := range page {
			if seen[l.ListingID] {
				c.logger.Warn("重複したlisting_idをスキップします",
					slog.Int64("listing_id", l.ListingID),
					slog.Int("offset", offset),
				)
				continue
			}
			seen[l.ListingID] = true
			listings = append(listings, l)
		}

		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}

	c.logger.Info("アクティブな出品の取得が完了しました",
		slog.Int("listing_count", len(listings)),
	)

	return listings, nil
}

// fetchListingsPage は指定オフセットの出品リストページを1ページ取得する。
func (c *Client) fetchListingsPage(ctx context.Context, offset, limit int) ([]Listing, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("レートリミッターの待機に失敗: %w", err)
	}

	reqURL := fmt.Sprintf("%s/shops/%s/listings/active?limit=%d&offset=%d",
		c.config.BaseURL, c.config.ShopID, limit, offset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("出品リストリクエストの作成に失敗: %w", err)
	}
	c.setAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("出品リストの取得に失敗しました: offset=%d: %w", offset, err)
	}
	defer resp.Body.Close()

	c.recordStatus(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewFetchError(offset, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("出品リストレスポンスの読み取りに失敗: offset=%d: %w", offset, err)
	}

	var page listingsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("出品リストレスポンスのパースに失敗: offset=%d: %w", offset, err)
	}

	return page.Results, nil
}
