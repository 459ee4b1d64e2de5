package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vitriny/bridgesync/internal/model"
)

// Authenticate はリフレッシュトークングラントでアクセストークンを取得し、
// 以降のAPI呼び出しに使用するためクライアント内に保持する。
// トークンエンドポイントが非成功ステータスを返した場合は
// ステータスコードとレスポンスボディを含む認証エラーを返す。
// この失敗は致命的であり、呼び出し元は実行全体を中断する。
func (c *Client) Authenticate(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("レートリミッターの待機に失敗: %w", err)
	}

	data := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.config.ClientID},
		"refresh_token": {c.config.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("トークンリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewAuthenticationError(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("トークンレスポンスの読み取りに失敗: %w", err)
	}

	c.recordStatus(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewAuthenticationError(resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return fmt.Errorf("トークンレスポンスのパースに失敗: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return model.NewAuthenticationError(resp.StatusCode, "empty access token in response")
	}

	c.accessToken = tokenResp.AccessToken

	c.logger.Info("アクセストークンを取得しました",
		slog.Int("expires_in", tokenResp.ExpiresIn),
	)

	return nil
}
