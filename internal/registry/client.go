package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brokerlane/brokerlane-backend/pkg/config"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
	"github.com/brokerlane/brokerlane-backend/pkg/redis"
)

// CompanyMatch is one search hit from the companies registry.
type CompanyMatch struct {
	Number  string `json:"number"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Address string `json:"address,omitempty"`
}

// Officer is one director/officer on a registered company.
type Officer struct {
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	AppointedOn *string `json:"appointed_on,omitempty"`
}

// CompanyDetails is the full registry record for one company number.
type CompanyDetails struct {
	Company  CompanyMatch `json:"company"`
	Officers []Officer    `json:"officers"`
}

// Lookup is the company-registry surface consumed by the intake wizard.
// Every method is best-effort: transport or upstream failure degrades to an
// empty result so the wizard can fall back to manual entry.
type Lookup interface {
	Search(ctx context.Context, query string) []CompanyMatch
	Details(ctx context.Context, companyNumber string) *CompanyDetails
}

type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   redis.Cache
	ttl     time.Duration
	logg    *logger.Logger
}

// NewClient builds the registry lookup client. A nil cache disables caching,
// an empty base URL yields a client that always returns empty results.
func NewClient(cfg config.RegistryConfig, cache redis.Cache, logg *logger.Logger) Lookup {
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache,
		ttl:     cfg.CacheTTL,
		logg:    logg,
	}
}

func (c *client) Search(ctx context.Context, query string) []CompanyMatch {
	query = strings.TrimSpace(query)
	if c.baseURL == "" || query == "" {
		return nil
	}

	cacheKey := c.cacheKey("search", strings.ToLower(query))
	var matches []CompanyMatch
	if c.cachedInto(ctx, cacheKey, &matches) {
		return matches
	}

	endpoint := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))
	var payload struct {
		Items []CompanyMatch `json:"items"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		c.warn(ctx, "registry search failed", err)
		return nil
	}
	c.store(ctx, cacheKey, payload.Items)
	return payload.Items
}

func (c *client) Details(ctx context.Context, companyNumber string) *CompanyDetails {
	companyNumber = strings.TrimSpace(companyNumber)
	if c.baseURL == "" || companyNumber == "" {
		return nil
	}

	cacheKey := c.cacheKey("details", companyNumber)
	var details CompanyDetails
	if c.cachedInto(ctx, cacheKey, &details) {
		return &details
	}

	endpoint := fmt.Sprintf("%s/company/%s", c.baseURL, url.PathEscape(companyNumber))
	if err := c.getJSON(ctx, endpoint, &details); err != nil {
		c.warn(ctx, "registry details failed", err)
		return nil
	}
	c.store(ctx, cacheKey, details)
	return &details
}

func (c *client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.SetBasicAuth(c.apiKey, "")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) cacheKey(scope, id string) string {
	if c.cache == nil {
		return ""
	}
	return c.cache.CacheKey("registry:"+scope, id)
}

func (c *client) cachedInto(ctx context.Context, key string, out any) bool {
	if c.cache == nil || key == "" {
		return false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			c.warn(ctx, "registry cache read failed", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.warn(ctx, "registry cache entry corrupt", err)
		return false
	}
	return true
}

func (c *client) store(ctx context.Context, key string, value any) {
	if c.cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.warn(ctx, "registry cache write failed", err)
	}
}

func (c *client) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}
