// Package config は環境変数ベースの設定読み込みを提供する。
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vitriny/bridgesync/internal/model"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Etsy API認証情報（すべて必須）
	ClientID     string
	ClientSecret string
	RefreshToken string
	ShopID       string

	// Sync
	ShopName        string
	DataDir         string
	SyncConcurrency int
	SyncPageSize    int
	SyncTimeout     time.Duration // 0 はタイムアウトなし

	// HTTP
	FetchTimeout  time.Duration
	RatePerSecond float64
	RateBurst     int

	// History（任意。未設定の場合は同期履歴の記録を無効化する）
	HistoryDatabaseURL string

	// Server
	ServerPort        string
	CORSAllowedOrigin string

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envファイルがあれば先に読み込む（存在しない場合は無視）。
// 必須環境変数が未設定の場合は、ネットワークアクセスを行う前に
// 欠落している変数名をすべて含むエラーを返す。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.ClientID = os.Getenv("ETSY_CLIENT_ID")
	if cfg.ClientID == "" {
		missing = append(missing, "ETSY_CLIENT_ID")
	}

	cfg.ClientSecret = os.Getenv("ETSY_CLIENT_SECRET")
	if cfg.ClientSecret == "" {
		missing = append(missing, "ETSY_CLIENT_SECRET")
	}

	cfg.RefreshToken = os.Getenv("ETSY_REFRESH_TOKEN")
	if cfg.RefreshToken == "" {
		missing = append(missing, "ETSY_REFRESH_TOKEN")
	}

	cfg.ShopID = os.Getenv("ETSY_SHOP_ID")
	if cfg.ShopID == "" {
		missing = append(missing, "ETSY_SHOP_ID")
	}

	if len(missing) > 0 {
		return nil, model.NewConfigurationError(strings.Join(missing, ", "))
	}

	// Optional fields with defaults
	cfg.ShopName = getEnvString("SHOP_NAME", "Vitrinybridge")
	cfg.DataDir = getEnvString("DATA_DIR", "data")
	cfg.SyncConcurrency = getEnvInt("SYNC_CONCURRENCY", 6)
	cfg.SyncPageSize = getEnvInt("SYNC_PAGE_SIZE", 100)
	cfg.SyncTimeout = getEnvDuration("SYNC_TIMEOUT", 0)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 30*time.Second)
	cfg.RatePerSecond = getEnvFloat("RATE_PER_SECOND", 5.0)
	cfg.RateBurst = getEnvInt("RATE_BURST", 10)
	cfg.HistoryDatabaseURL = getEnvString("HISTORY_DATABASE_URL", "")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
