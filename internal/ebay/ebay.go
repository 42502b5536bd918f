package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/guarzo/psalistings/internal/metrics"
	"github.com/guarzo/psalistings/internal/model"
	"github.com/guarzo/psalistings/internal/query"
)

// RawResponse is the Browse API search envelope, decoded without a schema.
type RawResponse = map[string]any

// Client searches the Browse API for graded Pokemon listings.
//
// The access token is fetched on the first search and then reused for the
// lifetime of the Client. It is never refreshed; a Client that outlives the
// token's expiry will start failing with *SearchError.
type Client struct {
	auth        *Authenticator
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	token       string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client for both token and search calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL points the client at a different API host (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRateLimit spaces outgoing requests to at most perSecond calls per second.
// A value <= 0 leaves requests unpaced.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.rateLimiter = nil
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a client for the sandbox or production environment.
func NewClient(credentials Credentials, sandbox bool, opts ...Option) *Client {
	c := &Client{
		baseURL:    BaseURL(sandbox),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = NewAuthenticator(credentials, c.baseURL, c.httpClient)
	return c
}

// Available reports whether the client has credentials to authenticate with.
func (c *Client) Available() bool {
	return c.auth.credentials.Complete()
}

// Authenticated reports whether a token has already been acquired.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Authenticate acquires the access token if the client does not hold one yet.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	if !c.Available() {
		return ErrNotConfigured
	}
	if err := c.wait(ctx); err != nil {
		return err
	}

	token, err := c.auth.AcquireToken(ctx)
	if err != nil {
		return err
	}
	c.token = token
	log.Printf("eBay: Successfully authenticated with eBay API")
	return nil
}

// Search builds the graded query from filters and runs a single search.
func (c *Client) Search(ctx context.Context, filters model.SearchFilters) (RawResponse, error) {
	return c.SearchQuery(ctx, query.FromFilters(filters), filters.EffectiveLimit())
}

// SearchQuery runs one Browse API search for q, returning the first page of
// at most limit results. The response envelope is returned as decoded.
func (c *Client) SearchQuery(ctx context.Context, q string, limit int) (RawResponse, error) {
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("category_ids", CategoryID)
	params.Set("filter", FixedPriceFilter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	log.Printf("eBay: Searching for: %s", q)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eBay API request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveEbayRequest("search", resp.StatusCode, time.Since(start).Seconds())

	body, err := readBody(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err != nil {
		return nil, err
	}

	var result RawResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse eBay response: %w", err)
	}
	if result == nil {
		// a literal JSON null decodes to a nil map
		result = RawResponse{}
	}

	return result, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.rateLimiter == nil {
		return nil
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}
	return nil
}
