package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/vitriny/bridgesync/internal/model"
)

func TestAssemble_SortsByTitleStable(t *testing.T) {
	products := []model.Product{
		{ID: 1, Title: "Banana", Slug: "banana"},
		{ID: 2, Title: "Apple", Slug: "apple-1"},
		{ID: 3, Title: "apple", Slug: "apple-2"},
		{ID: 4, Title: "Apple", Slug: "apple-3"},
	}

	feed := Assemble("TestShop", "12345", products, time.Now())

	// 辞書順: 大文字が小文字より先に並ぶ。同値タイトルは入力順を保持する。
	wantIDs := []int64{2, 4, 1, 3}
	for i, want := range wantIDs {
		if feed.Products[i].ID != want {
			t.Errorf("products[%d].ID = %d, want %d (titles: %v)",
				i, feed.Products[i].ID, want, titlesOf(feed.Products))
		}
	}
}

func titlesOf(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	products := []model.Product{
		{ID: 1, Title: "Banana"},
		{ID: 2, Title: "Apple"},
	}

	Assemble("TestShop", "12345", products, time.Now())

	if products[0].Title != "Banana" || products[1].Title != "Apple" {
		t.Error("input slice should not be reordered")
	}
}

func TestAssemble_CountMatchesProducts(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		products := make([]model.Product, n)
		feed := Assemble("TestShop", "12345", products, time.Now())
		if feed.Count != n {
			t.Errorf("count = %d, want %d", feed.Count, n)
		}
		if feed.Count != len(feed.Products) {
			t.Errorf("count (%d) should equal len(products) (%d)", feed.Count, len(feed.Products))
		}
	}
}

func TestAssemble_EnvelopeFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := Assemble("Vitrinybridge", "12345", nil, now)

	if feed.Shop != "Vitrinybridge" {
		t.Errorf("shop = %q", feed.Shop)
	}
	if feed.ShopID != "12345" {
		t.Errorf("shop_id = %q", feed.ShopID)
	}
	if !feed.UpdatedAt.Equal(now) {
		t.Errorf("updated_at = %v, want %v", feed.UpdatedAt, now)
	}
}

func TestAssemble_DeterministicOutput(t *testing.T) {
	// 同一入力・同一時刻で組み立てたフィードはバイト単位で同一のJSONになること
	products := []model.Product{
		{ID: 1, Title: "Banana", Slug: "banana", Images: []string{}},
		{ID: 2, Title: "Apple", Slug: "apple", Images: []string{"https://img.example.com/a.jpg"}},
		{ID: 3, Title: "apple", Slug: "apple-2", Images: []string{}},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := json.Marshal(Assemble("TestShop", "12345", products, now))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(Assemble("TestShop", "12345", products, now))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("output should be byte-identical:\nfirst:  %s\nsecond: %s", first, second)
	}
}
