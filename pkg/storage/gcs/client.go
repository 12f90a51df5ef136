package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/brokerlane/brokerlane-backend/pkg/config"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

const (
	storageEndpoint = "https://storage.googleapis.com"
	metadataToken   = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	tokenSkew       = 30 * time.Second
)

// Client is a thin GCS object client over the JSON API. Documents are small
// enough that simple (non-resumable) uploads are sufficient.
type Client struct {
	httpClient *http.Client
	bucket     string
	tokens     *tokenSource
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient builds a GCS client for the configured bucket using the instance
// metadata token source.
func NewClient(ctx context.Context, cfg config.GCSConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := &Client{
		httpClient: httpClient,
		bucket:     cfg.BucketName,
		tokens:     &tokenSource{httpClient: httpClient},
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}
	return client, nil
}

// Upload writes content to the named object path.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader, contentType string) error {
	endpoint := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		storageEndpoint, url.PathEscape(c.bucket), url.QueryEscape(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, content)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.do(ctx, req)
}

// Remove deletes the named object paths, attempting every path and returning
// the first error encountered so callers can report partial failure.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	var firstErr error
	for _, path := range paths {
		endpoint := fmt.Sprintf("%s/storage/v1/b/%s/o/%s",
			storageEndpoint, url.PathEscape(c.bucket), url.PathEscape(path))
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := c.do(ctx, req); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PublicURL returns the canonical public URL for an object path.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", storageEndpoint, c.bucket, path)
}

// Ping verifies the bucket is reachable with the current credentials.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/storage/v1/b/%s", storageEndpoint, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, req *http.Request) error {
	token, err := c.tokens.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("fetch access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("gcs %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
}

type tokenSource struct {
	httpClient *http.Client
	endpoint   string

	mu      sync.Mutex
	token   string
	expires time.Time
}

func (t *tokenSource) accessToken(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Now().Before(t.expires.Add(-tokenSkew)) {
		return t.token, nil
	}

	endpoint := t.endpoint
	if endpoint == "" {
		endpoint = metadataToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata token endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("metadata token response missing access_token")
	}

	t.token = payload.AccessToken
	t.expires = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return t.token, nil
}
