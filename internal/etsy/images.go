package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vitriny/bridgesync/internal/model"
)

// ListingImages は指定出品の画像レコードを取得する。
// 失敗時はエラーを返すが、デグレード（画像なしで続行するか）の判断は
// 呼び出し元のワーカープールに委ねる。このエラーが実行全体を中断することはない。
func (c *Client) ListingImages(ctx context.Context, listingID int64) ([]Image, error) {
	if err := c.wait(ctx); err != nil {
		return nil, model.NewImageFetchError(listingID, err.Error())
	}

	reqURL := fmt.Sprintf("%s/listings/%d/images", c.config.BaseURL, listingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, model.NewImageFetchError(listingID, err.Error())
	}
	c.setAPIHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewImageFetchError(listingID, err.Error())
	}
	defer resp.Body.Close()

	c.recordStatus(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, model.NewImageFetchError(listingID, fmt.Sprintf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewImageFetchError(listingID, err.Error())
	}

	var page imagesResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, model.NewImageFetchError(listingID, err.Error())
	}

	return page.Results, nil
}
