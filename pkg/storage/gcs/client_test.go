package gcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestAccessTokenFetchAndCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Metadata-Flavor") != "Google" {
			t.Fatalf("missing metadata flavor header")
		}
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":3600}`))
	}))
	defer server.Close()

	tokens := &tokenSource{httpClient: server.Client(), endpoint: server.URL}

	token, err := tokens.accessToken(context.Background())
	if err != nil {
		t.Fatalf("accessToken returned error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token %q", token)
	}

	// A second call inside the expiry window reuses the cached token.
	if _, err := tokens.accessToken(context.Background()); err != nil {
		t.Fatalf("cached accessToken returned error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected 1 metadata fetch, got %d", got)
	}
}

func TestAccessTokenRejectsEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"","expires_in":3600}`))
	}))
	defer server.Close()

	tokens := &tokenSource{httpClient: server.Client(), endpoint: server.URL}
	if _, err := tokens.accessToken(context.Background()); err == nil {
		t.Fatal("expected error for empty access_token")
	}
}

func TestPublicURL(t *testing.T) {
	client := &Client{bucket: "brokerlane-documents"}
	got := client.PublicURL("applications/a/b/1_statements.pdf")
	want := "https://storage.googleapis.com/brokerlane-documents/applications/a/b/1_statements.pdf"
	if got != want {
		t.Fatalf("unexpected url %s", got)
	}
}
