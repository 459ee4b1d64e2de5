// Package etsy はEtsy Open API v3のクライアントを提供する。
// リフレッシュトークングラントによるトークン取得、アクティブ出品のページネーション取得、
// 出品画像の取得を含む。
package etsy

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultTokenURL はEtsyのトークン発行エンドポイント。
	defaultTokenURL = "https://api.etsy.com/v3/public/oauth/token"
	// defaultBaseURL はEtsyのアプリケーションAPIのベースURL。
	defaultBaseURL = "https://api.etsy.com/v3/application"
	// defaultPageSize は出品リスト取得の1ページあたりの件数。
	defaultPageSize = 100
)

// StatusRecorder は上流APIのHTTPステータスコードを記録するインターフェース。
// メトリクス収集に使用する。nilの場合は記録しない。
type StatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// Config はClientの設定を保持する。
// TokenURLとBaseURLはテスト用にオーバーライド可能。
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	ShopID       string

	// テスト用にオーバーライド可能なURL
	TokenURL string
	BaseURL  string

	PageSize   int
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *slog.Logger
	Metrics    StatusRecorder
}

// Client はEtsy APIのクライアント。
// すべてのAPI呼び出しはレートリミッターを経由し、contextのキャンセルを尊重する。
type Client struct {
	config      Config
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
	accessToken string
}

// NewClient はClientの新しいインスタンスを生成する。
// 未指定の設定にはデフォルト値を適用する。
func NewClient(config Config) *Client {
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.PageSize <= 0 {
		config.PageSize = defaultPageSize
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	limiter := config.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// setAPIHeaders はスコープ付きエンドポイントに必要な認証ヘッダーを設定する。
// x-api-keyは "keystring:shared_secret" 形式を要求される。
func (c *Client) setAPIHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.config.ClientID+":"+c.config.ClientSecret)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
}

// wait はレートリミッターの許可を待つ。
func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// recordStatus は上流のHTTPステータスコードをメトリクスに記録する。
func (c *Client) recordStatus(statusCode int) {
	if c.config.Metrics != nil {
		c.config.Metrics.RecordHTTPStatus(statusCode)
	}
}
