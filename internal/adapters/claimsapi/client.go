// Package claimsapi is the HTTP client for the backend claims data API.
package claimsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
	"github.com/ministryofjustice/claims-ui/internal/observability/metrics"
	"github.com/ministryofjustice/claims-ui/internal/observability/statsd"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

const (
	claimsPath      = "/api/v1/claims"
	submissionsPath = "/api/v1/submissions"

	defaultTimeout   = 5 * time.Second
	defaultItemsExpr = "data || @"
	defaultTotalExpr = "meta.total"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
	// ItemsExpr and TotalExpr are JMESPath expressions locating the item
	// list and the total count in a list response.
	ItemsExpr string
	TotalExpr string

	Logger *slog.Logger
	// Metrics receives one claims_api.request per call. Nil disables.
	Metrics statsd.Sink
	// HTTPClient overrides the transport client. Tests use this.
	HTTPClient *http.Client
}

// Client reads claims and submissions from the claims API.
type Client struct {
	base     *url.URL
	http     *retryablehttp.Client
	envelope *Envelope
	decode   *decoder
	logger   *slog.Logger
	metrics  statsd.Sink
}

var _ ports.ClaimsAPI = (*Client)(nil)

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("claims API base URL %q must be absolute", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ItemsExpr == "" {
		cfg.ItemsExpr = defaultItemsExpr
	}
	if cfg.TotalExpr == "" {
		cfg.TotalExpr = defaultTotalExpr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = statsd.Discard{}
	}

	envelope, err := NewEnvelope(cfg.ItemsExpr, cfg.TotalExpr)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = NewLeveledLogger(cfg.Logger)
	// Return the last response instead of a generic "giving up" error so
	// the status code reaches the caller.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		base:     base,
		http:     rc,
		envelope: envelope,
		decode:   newDecoder(),
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}, nil
}

// ListClaims fetches one page of claims.
func (c *Client) ListClaims(ctx context.Context, opts model.ListOptions) (model.Page[model.Claim], error) {
	items, meta, err := c.list(ctx, "claims.list", claimsPath, opts)
	if err != nil {
		return model.Page[model.Claim]{}, err
	}
	claims := make([]model.Claim, 0, len(items))
	for _, raw := range items {
		claim, err := c.decode.claim(raw)
		if err != nil {
			return model.Page[model.Claim]{}, err
		}
		claims = append(claims, claim)
	}
	return model.Page[model.Claim]{Items: claims, Meta: meta}, nil
}

// GetClaim fetches a single claim.
func (c *Client) GetClaim(ctx context.Context, id int64) (model.Claim, error) {
	doc, err := c.getJSON(ctx, "claims.get", claimsPath+"/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return model.Claim{}, err
	}
	return c.decode.claim(doc)
}

// ListSubmissions fetches one page of submissions.
func (c *Client) ListSubmissions(ctx context.Context, opts model.ListOptions) (model.Page[model.Submission], error) {
	items, meta, err := c.list(ctx, "submissions.list", submissionsPath, opts)
	if err != nil {
		return model.Page[model.Submission]{}, err
	}
	subs := make([]model.Submission, 0, len(items))
	for _, raw := range items {
		sub, err := c.decode.submission(raw)
		if err != nil {
			return model.Page[model.Submission]{}, err
		}
		subs = append(subs, sub)
	}
	return model.Page[model.Submission]{Items: subs, Meta: meta}, nil
}

// GetSubmission fetches a single submission with its claims.
func (c *Client) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	if strings.TrimSpace(id) == "" {
		return model.Submission{}, apperrors.Validation("submission id is required")
	}
	doc, err := c.getJSON(ctx, "submissions.get", submissionsPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Submission{}, err
	}
	return c.decode.submission(doc)
}

// list fetches a list endpoint and returns the items for the requested page.
// When the response carries no total the API returned everything, so the
// page is cut locally.
func (c *Client) list(ctx context.Context, endpoint, path string, opts model.ListOptions) ([]any, model.PaginationMeta, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		return nil, model.PaginationMeta{}, apperrors.Validationf("limit must be at least 1, got %d", opts.Limit)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(opts.Page))
	query.Set("limit", strconv.Itoa(opts.Limit))

	doc, err := c.getJSON(ctx, endpoint, path, query)
	if err != nil {
		return nil, model.PaginationMeta{}, err
	}

	items, total, hasTotal, err := c.envelope.Extract(doc)
	if err != nil {
		return nil, model.PaginationMeta{}, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "unexpected %s response", path)
	}

	meta := model.PaginationMeta{Page: opts.Page, Limit: opts.Limit, Total: total}
	if !hasTotal {
		meta.Total = len(items)
		start := min(opts.Offset(), len(items))
		end := min(start+opts.Limit, len(items))
		items = items[start:end]
	}
	return items, meta, nil
}

// getJSON performs an authenticated GET and decodes the body into a
// generic JSON value. endpoint labels the call's metrics.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values) (doc any, err error) {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build claims API request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	ts, hasTS := ports.TokenSourceFrom(ctx)
	if hasTS {
		token, err := ts.Token(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "obtain access token")
		}
		if token == "" {
			return nil, apperrors.Unauthorized("no access token for claims API request")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	status := 0
	defer func() {
		metrics.EmitAPICall(c.metrics, metrics.APICall{
			Endpoint: endpoint,
			Status:   status,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "claims API request failed", "path", path, "error", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "claims API request timed out")
		}
		return nil, fmt.Errorf("claims API %s: %w", path, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read claims API response %s: %w", path, err)
	}

	c.logger.DebugContext(ctx, "claims API request",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && hasTS {
			if err := ts.MarkStale(ctx); err != nil {
				c.logger.WarnContext(ctx, "failed to mark token stale", "error", err)
			}
		}
		return nil, &apperrors.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Path:       path,
		}
	}

	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "decode %s response", path)
	}
	return doc, nil
}

// errorMessage pulls the "message" field out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
