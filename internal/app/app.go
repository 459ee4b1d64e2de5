// Package app はサブコマンドの解析と各起動モードのワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/vitriny/bridgesync/internal/catalog"
	"github.com/vitriny/bridgesync/internal/config"
	"github.com/vitriny/bridgesync/internal/database"
	"github.com/vitriny/bridgesync/internal/etsy"
	"github.com/vitriny/bridgesync/internal/handler"
	"github.com/vitriny/bridgesync/internal/logger"
	"github.com/vitriny/bridgesync/internal/metrics"
	"github.com/vitriny/bridgesync/internal/middleware"
	"github.com/vitriny/bridgesync/internal/repository"
	"github.com/vitriny/bridgesync/internal/security"
	"github.com/vitriny/bridgesync/internal/store"
	syncsvc "github.com/vitriny/bridgesync/internal/sync"
	"github.com/vitriny/bridgesync/internal/worker/cleanup"
	"github.com/vitriny/bridgesync/internal/worker/images"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck と migrate は軽量サブコマンドのため、
	// マーケットプレイスの認証情報を要求するフル初期化をスキップする
	switch cmd {
	case CommandHealthcheck:
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	case CommandMigrate:
		logger.SetupDefault(w)
		return runMigrate(os.Getenv("HISTORY_DATABASE_URL"))
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("shop", cfg.ShopName),
		slog.String("shop_id", cfg.ShopID),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	default:
		return runSync(cfg)
	}
}

// runSync はカタログ同期を1回実行して終了する。
// SIGINTまたはSIGTERMシグナルを受信すると実行中の同期をキャンセルする。
// SYNC_TIMEOUTが設定されている場合は実行全体にタイムアウトを適用する。
func runSync(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SyncTimeout)
		defer cancel()
	}

	// 1. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. セキュリティサービスの初期化
	guard := security.NewFeedGuard()
	sanitizer := security.NewTitleSanitizer()

	// 3. マーケットプレイスクライアントの初期化
	client := etsy.NewClient(etsy.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		ShopID:       cfg.ShopID,
		PageSize:     cfg.SyncPageSize,
		HTTPClient:   guard.NewSafeClient(cfg.FetchTimeout),
		Limiter:      rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		Logger:       slog.Default(),
		Metrics:      collector,
	})

	// 4. パイプラインコンポーネントの初期化
	pool := images.NewPool(client, guard, collector, slog.Default(), cfg.SyncConcurrency)
	normalizer := catalog.NewNormalizer(sanitizer)
	writer := store.NewWriter(cfg.DataDir, slog.Default())

	// 5. 同期履歴リポジトリの初期化（任意）
	var history repository.SyncRunRepository
	var cleanupJob *cleanup.CleanupJob
	if cfg.HistoryDatabaseURL != "" {
		db, err := database.Open(cfg.HistoryDatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to history database: %w", err)
		}

		slog.Info("history database connection established")
		history = repository.NewPostgresSyncRunRepo(db)
		cleanupJob = cleanup.NewCleanupJob(db, slog.Default())
	}

	// 6. 同期の実行
	service := syncsvc.NewService(
		client, pool, normalizer, writer, history, collector,
		slog.Default(), cfg.ShopName, cfg.ShopID,
	)

	if err := service.Run(ctx); err != nil {
		return err
	}

	// 7. 期限切れ履歴のクリーンアップ（履歴DBが有効な場合のみ）
	if cleanupJob != nil {
		if err := cleanupJob.Run(ctx); err != nil {
			slog.Error("cleanup job failed", slog.String("error", err.Error()))
		}
	}

	return nil
}

// runServe はフィード配信サーバーモードで起動する。
// 生成済みフィードファイルを配信し、SIGINTまたはSIGTERMシグナルを
// 受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクスの初期化
	registry := prometheus.NewRegistry()
	metrics.NewCollector(registry)

	// 2. 同期履歴リポジトリの初期化（任意）
	var history repository.SyncRunRepository
	if cfg.HistoryDatabaseURL != "" {
		db, err := database.Open(cfg.HistoryDatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to history database: %w", err)
		}

		slog.Info("history database connection established")
		history = repository.NewPostgresSyncRunRepo(db)
	}

	// 3. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		DataDir:           cfg.DataDir,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		History:           history,
		Gatherer:          registry,
	})

	// 4. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("feed server starting",
			slog.String("addr", server.Addr),
			slog.String("data_dir", cfg.DataDir),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down feed server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("feed server stopped gracefully")
	return nil
}

// runMigrate は同期履歴データベースのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("HISTORY_DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(databaseURL)),
	)

	if err := database.RunMigrations(databaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
