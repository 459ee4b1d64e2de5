// Package store はフィードのファイルシステムへの永続化を提供する。
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vitriny/bridgesync/internal/model"
)

const (
	// PrettyFileName は整形済みJSONフィードのファイル名。
	PrettyFileName = "products.json"
	// CompactFileName はコンパクトJSONフィードのファイル名。
	CompactFileName = "products.min.json"
)

// Writer はフィードをデータディレクトリ配下の2つの固定パスに書き込む。
// 整形済み（2スペースインデント）とコンパクトの両エンコーディングを
// 同一のFeedインスタンスから生成するため、両ファイルのcountとproductsは
// 常に一致する。
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter はWriterの新しいインスタンスを生成する。
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// PrettyPath は整形済みフィードの出力パスを返す。
func (w *Writer) PrettyPath() string {
	return filepath.Join(w.dir, PrettyFileName)
}

// CompactPath はコンパクトフィードの出力パスを返す。
func (w *Writer) CompactPath() string {
	return filepath.Join(w.dir, CompactFileName)
}

// Write はフィードを両エンコーディングで書き込む。
// データディレクトリが存在しない場合は作成する（冪等）。
// ディレクトリ作成またはいずれかの書き込みに失敗した場合は
// 致命的な永続化エラーを返す。部分的な出力を成功として扱うことはない。
func (w *Writer) Write(feed *model.Feed) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return model.NewPersistenceError(err.Error())
	}

	pretty, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return model.NewPersistenceError(err.Error())
	}
	if err := os.WriteFile(w.PrettyPath(), append(pretty, '\n'), 0o644); err != nil {
		return model.NewPersistenceError(err.Error())
	}

	compact, err := json.Marshal(feed)
	if err != nil {
		return model.NewPersistenceError(err.Error())
	}
	if err := os.WriteFile(w.CompactPath(), compact, 0o644); err != nil {
		return model.NewPersistenceError(err.Error())
	}

	w.logger.Info("フィードを書き込みました",
		slog.String("pretty_path", w.PrettyPath()),
		slog.String("compact_path", w.CompactPath()),
		slog.Int("product_count", feed.Count),
	)

	return nil
}
