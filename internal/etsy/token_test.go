package etsy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitriny/bridgesync/internal/model"
)

func TestAuthenticate_Success(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form-urlencoded", ct)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want %q", got, "refresh_token")
		}
		if got := r.PostForm.Get("client_id"); got != "test-client-id" {
			t.Errorf("client_id = %q, want %q", got, "test-client-id")
		}
		if got := r.PostForm.Get("refresh_token"); got != "test-refresh-token" {
			t.Errorf("refresh_token = %q, want %q", got, "test-refresh-token")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "test-access-token",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "new-refresh-token",
		})
	}))
	defer tokenServer.Close()

	client := NewClient(Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		ShopID:       "12345",
		TokenURL:     tokenServer.URL,
	})

	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if client.accessToken != "test-access-token" {
		t.Errorf("accessToken = %q, want %q", client.accessToken, "test-access-token")
	}
}

func TestAuthenticate_NonSuccessStatus_ReturnsAuthError(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenServer.Close()

	client := NewClient(Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "expired-refresh-token",
		ShopID:       "12345",
		TokenURL:     tokenServer.URL,
	})

	err := client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error on non-success status")
	}

	var syncErr *model.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("error should be *model.SyncError, got %T", err)
	}
	if syncErr.Code != model.ErrCodeAuthFailed {
		t.Errorf("Code = %q, want %q", syncErr.Code, model.ErrCodeAuthFailed)
	}
	// ステータスコードとレスポンスボディを含むこと
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should carry status code, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "invalid_grant") {
		t.Errorf("error should carry response body, got %q", err.Error())
	}
}

func TestAuthenticate_EmptyAccessToken_ReturnsError(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token_type": "Bearer",
			"expires_in": 3600,
		})
	}))
	defer tokenServer.Close()

	client := NewClient(Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		ShopID:       "12345",
		TokenURL:     tokenServer.URL,
	})

	err := client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error on empty access token")
	}
}

func TestAuthenticate_ConnectionError_ReturnsAuthError(t *testing.T) {
	// 接続先のないURLを指定する
	client := NewClient(Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		ShopID:       "12345",
		TokenURL:     "http://127.0.0.1:1",
	})

	err := client.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error on connection failure")
	}

	var syncErr *model.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("error should be *model.SyncError, got %T", err)
	}
	if syncErr.Code != model.ErrCodeAuthFailed {
		t.Errorf("Code = %q, want %q", syncErr.Code, model.ErrCodeAuthFailed)
	}
}
