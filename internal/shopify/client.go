package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/pkg/errors"
)

// APIVersion pins the Admin GraphQL endpoint version.
const APIVersion = "2025-01"

const (
	defaultMaxRetries = 6

	// Backoff for GraphQL-level throttle signals starts higher than for
	// transport-level 429/5xx; both are capped at the same ceiling.
	throttleBackoffBase = 2 * time.Second
	httpBackoffBase     = 1 * time.Second
	backoffCap          = 15 * time.Second
)

// Client issues Shopify Admin GraphQL requests with retry/backoff.
// Credentials are per-call: each dashboard user brings their own store
// domain and access token.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
	sleep      func(time.Duration)
}

// NewClient creates a new Shopify GraphQL client
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     logger,
		maxRetries: defaultMaxRetries,
		sleep:      time.Sleep,
	}
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message    string          `json:"message"`
	Extensions ErrorExtensions `json:"extensions,omitempty"`
	Path       []interface{}   `json:"path,omitempty"`
}

// ErrorExtensions carries Shopify's structured error code
type ErrorExtensions struct {
	Code string `json:"code,omitempty"`
}

// NormalizeStoreDomain strips scheme and trailing slashes so stored
// credentials work whether the operator saved "mystore.myshopify.com"
// or a full URL.
func NormalizeStoreDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")
	return domain
}

// Execute posts a GraphQL query/mutation and retries on throttling.
//
// Retry policy: a 2xx response whose error array signals a throttle, or an
// HTTP 429/5xx, backs off exponentially (capped at 15s, honoring Retry-After
// for the HTTP case) and retries up to maxRetries times. Any other non-2xx
// status fails immediately. A 2xx response with non-throttle GraphQL errors
// is returned as-is; callers must inspect Errors.
func (c *Client) Execute(ctx context.Context, storeURL, token, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", NormalizeStoreDomain(storeURL), APIVersion)

	payload, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shopify-Access-Token", token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			var graphQLResp GraphQLResponse
			if err := json.Unmarshal(body, &graphQLResp); err != nil {
				return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
			}

			if len(graphQLResp.Errors) > 0 && isThrottled(graphQLResp.Errors) {
				backoff := backoffDelay(throttleBackoffBase, attempt)
				c.logger.Warn("GraphQL throttled, backing off",
					zap.Duration("backoff", backoff),
					zap.Int("attempt", attempt+1),
				)
				lastErr = fmt.Errorf("graphQL throttled: %s", joinErrorMessages(graphQLResp.Errors))
				c.sleep(backoff)
				continue
			}

			return &graphQLResp, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			backoff := backoffDelay(httpBackoffBase, attempt)
			if secs, parseErr := strconv.ParseFloat(strings.TrimSpace(resp.Header.Get("Retry-After")), 64); parseErr == nil && secs > 0 {
				backoff = time.Duration(secs * float64(time.Second))
			}
			c.logger.Warn("HTTP error from Shopify, backing off",
				zap.Int("status", resp.StatusCode),
				zap.Duration("backoff", backoff),
				zap.Int("attempt", attempt+1),
			)
			lastErr = &errors.ErrUpstream{Status: resp.StatusCode, Body: string(body)}
			c.sleep(backoff)
			continue
		}

		return nil, &errors.ErrUpstream{Status: resp.StatusCode, Body: string(body)}
	}

	return nil, &errors.ErrExhaustedRetries{Attempts: c.maxRetries + 1, LastErr: lastErr}
}

// isThrottled reports whether the error array carries Shopify's rate-limit
// signal. The structured extensions code is authoritative; the message-text
// match is kept for responses that omit it.
func isThrottled(errs []GraphQLError) bool {
	for _, e := range errs {
		if strings.EqualFold(e.Extensions.Code, "THROTTLED") {
			return true
		}
	}
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e.Extensions.Code), "throttle") ||
			strings.Contains(strings.ToLower(e.Message), "throttle") {
			return true
		}
	}
	return false
}

func joinErrorMessages(errs []GraphQLError) string {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return strings.Join(messages, "; ")
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= backoffCap {
			return backoffCap
		}
	}
	if d > backoffCap {
		return backoffCap
	}
	return d
}
