package store

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vitriny/bridgesync/internal/model"
)

func testFeed() *model.Feed {
	price := 19.99
	currency := "USD"
	return &model.Feed{
		Shop:      "TestShop",
		ShopID:    "12345",
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Count:     2,
		Products: []model.Product{
			{
				ID:       1,
				Slug:     "apple-mug",
				Title:    "Apple Mug",
				URL:      "https://www.etsy.com/listing/1",
				Price:    &price,
				Currency: &currency,
				Images:   []string{"https://img.example.com/1.jpg"},
			},
			{
				ID:     2,
				Slug:   "banana-bowl",
				Title:  "Banana Bowl",
				URL:    "https://www.etsy.com/listing/2",
				Images: []string{},
			},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriter_WritesBothEncodings(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	w := NewWriter(dir, discardLogger())

	if err := w.Write(testFeed()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	prettyData, err := os.ReadFile(w.PrettyPath())
	if err != nil {
		t.Fatalf("pretty file should exist: %v", err)
	}
	compactData, err := os.ReadFile(w.CompactPath())
	if err != nil {
		t.Fatalf("compact file should exist: %v", err)
	}

	var pretty, compact model.Feed
	if err := json.Unmarshal(prettyData, &pretty); err != nil {
		t.Fatalf("pretty file should be valid JSON: %v", err)
	}
	if err := json.Unmarshal(compactData, &compact); err != nil {
		t.Fatalf("compact file should be valid JSON: %v", err)
	}

	// 両ファイルが同一のFeedを表すこと
	if pretty.Count != compact.Count {
		t.Errorf("count mismatch: pretty=%d compact=%d", pretty.Count, compact.Count)
	}
	if len(pretty.Products) != len(compact.Products) {
		t.Errorf("product count mismatch: pretty=%d compact=%d",
			len(pretty.Products), len(compact.Products))
	}

	// countは両ファイルでproductsの件数と一致すること
	if pretty.Count != len(pretty.Products) {
		t.Errorf("pretty count (%d) != len(products) (%d)", pretty.Count, len(pretty.Products))
	}
	if compact.Count != len(compact.Products) {
		t.Errorf("compact count (%d) != len(products) (%d)", compact.Count, len(compact.Products))
	}
}

func TestWriter_PrettyIsIndented(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, discardLogger())

	if err := w.Write(testFeed()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	prettyData, _ := os.ReadFile(w.PrettyPath())
	compactData, _ := os.ReadFile(w.CompactPath())

	if len(prettyData) <= len(compactData) {
		t.Error("pretty encoding should be larger than compact encoding")
	}
}

func TestWriter_CreatesDirectoryIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	w := NewWriter(dir, discardLogger())

	// 2回書き込んでもエラーにならないこと
	if err := w.Write(testFeed()); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if err := w.Write(testFeed()); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
}

func TestWriter_ReplacesExistingFeed(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, discardLogger())

	feed := testFeed()
	if err := w.Write(feed); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// 商品数を減らした新しいフィードで完全に置き換わること
	smaller := &model.Feed{
		Shop:      feed.Shop,
		ShopID:    feed.ShopID,
		UpdatedAt: time.Now().UTC(),
		Count:     0,
		Products:  []model.Product{},
	}
	if err := w.Write(smaller); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, _ := os.ReadFile(w.CompactPath())
	var got model.Feed
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Count != 0 || len(got.Products) != 0 {
		t.Errorf("feed should be fully replaced, got count=%d products=%d",
			got.Count, len(got.Products))
	}
}

func TestWriter_DirectoryCreationFailure_ReturnsPersistenceError(t *testing.T) {
	// 既存ファイルと同名のパスをディレクトリとして指定する
	base := t.TempDir()
	blocking := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocking, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	w := NewWriter(filepath.Join(blocking, "data"), discardLogger())

	err := w.Write(testFeed())
	if err == nil {
		t.Fatal("expected error when directory creation fails")
	}

	var syncErr *model.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("error should be *model.SyncError, got %T", err)
	}
	if syncErr.Code != model.ErrCodePersistFailed {
		t.Errorf("Code = %q, want %q", syncErr.Code, model.ErrCodePersistFailed)
	}
}
