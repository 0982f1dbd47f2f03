package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adsignal/internal/domain"
	"adsignal/pkg/config"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"

	"golang.org/x/time/rate"
)

const retryJitterMax = 100 * time.Millisecond

// implements domain.TransparencyAPI against the ads transparency search API
type TransparencyClient struct {
	client            *http.Client
	baseURL           string
	apiKey            string
	timeout           time.Duration
	retries           int
	backoffBase       time.Duration
	transcriptTimeout time.Duration
	region            string
	logger            *logger.Logger
	metrics           *metrics.Metrics
	rateLimiter       *rate.Limiter

	// test seams
	sleep  func(context.Context, time.Duration) error
	jitter func() time.Duration
}

// creates a new transparency API client
func NewTransparencyClient(cfg config.UpstreamConfig, region string, logger *logger.Logger, metrics *metrics.Metrics) *TransparencyClient {
	c := &TransparencyClient{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:           cfg.APIURL,
		apiKey:            cfg.APIKey,
		timeout:           cfg.RequestTimeout,
		retries:           cfg.MaxRetries,
		backoffBase:       cfg.RetryBackoff,
		transcriptTimeout: cfg.TranscriptTimeout,
		region:            region,
		logger:            logger,
		metrics:           metrics,
		rateLimiter:       rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitPerSecond),
	}
	c.sleep = sleepCtx
	c.jitter = func() time.Duration {
		return time.Duration(rand.Int63n(int64(retryJitterMax)))
	}
	return c
}

type callOptions struct {
	timeout time.Duration
	retries int
}

// FetchCreatives lists creatives for a domain or advertiser in one format
func (c *TransparencyClient) FetchCreatives(ctx context.Context, q domain.AdQuery) (*domain.CreativesPayload, error) {
	params := url.Values{}
	switch {
	case q.Domain != "":
		params.Set("domain", q.Domain)
	case q.AdvertiserID != "":
		params.Set("advertiser_id", q.AdvertiserID)
	case q.Advertiser != "":
		params.Set("advertiser", q.Advertiser)
	default:
		return nil, domain.NewValidationError("creatives query needs a domain or an advertiser.")
	}
	params.Set("ad_format", q.Format)
	if q.Num > 0 {
		params.Set("num", strconv.Itoa(q.Num))
	}
	region := q.Region
	if region == "" {
		region = c.region
	}
	params.Set("region", region)
	params.Set("time_period", q.Period.QueryValue())

	var payload domain.CreativesPayload
	opt := callOptions{timeout: c.timeout, retries: c.retries}
	if err := c.fetchJSON(ctx, domain.EngineCreatives, params, opt, &payload); err != nil {
		return nil, err
	}
	payload.Engine = domain.EngineCreatives
	payload.AdFormat = q.Format
	return &payload, nil
}

// FetchAdvertiserSearch resolves a free-text query to advertisers and domains
func (c *TransparencyClient) FetchAdvertiserSearch(ctx context.Context, query string) (*domain.AdvertiserSearchPayload, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("region", c.region)

	var payload domain.AdvertiserSearchPayload
	opt := callOptions{timeout: c.timeout, retries: c.retries}
	if err := c.fetchJSON(ctx, domain.EngineAdvertiserSearch, params, opt, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchAdDetails fetches the detail record for a single creative
func (c *TransparencyClient) FetchAdDetails(ctx context.Context, advertiserID, creativeID string) (*domain.AdDetailsPayload, error) {
	params := url.Values{}
	params.Set("advertiser_id", advertiserID)
	params.Set("creative_id", creativeID)

	var payload domain.AdDetailsPayload
	opt := callOptions{timeout: c.timeout, retries: c.retries}
	if err := c.fetchJSON(ctx, domain.EngineAdDetails, params, opt, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchTranscript fetches a YouTube transcript. Tight budget, no retries.
func (c *TransparencyClient) FetchTranscript(ctx context.Context, videoID string) (*domain.TranscriptPayload, error) {
	params := url.Values{}
	params.Set("video_id", videoID)

	var payload domain.TranscriptPayload
	opt := callOptions{timeout: c.transcriptTimeout, retries: 0}
	if err := c.fetchJSON(ctx, domain.EngineTranscripts, params, opt, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// fetchJSON issues one GET per retry attempt with exponential backoff
func (c *TransparencyClient) fetchJSON(ctx context.Context, engine string, params url.Values, opt callOptions, out any) error {
	if c.apiKey == "" {
		c.metrics.RecordUpstreamFailure(engine, "missing_credential")
		return &domain.UpstreamError{Kind: domain.UpstreamKindHTTP, Message: "upstream credential is not configured"}
	}

	params.Set("engine", engine)

	var lastErr error
	for attempt := 0; attempt <= opt.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoffBase*(1<<(attempt-1)) + c.jitter()
			c.metrics.RecordUpstreamRetry(engine)
			c.logger.WithContext(ctx).WithFields(map[string]any{
				"engine":  engine,
				"attempt": attempt,
				"delay":   delay,
			}).Warn("Retrying upstream request")
			if err := c.sleep(ctx, delay); err != nil {
				return &domain.UpstreamError{Kind: domain.UpstreamKindTimeout, Message: "cancelled during retry backoff", Err: err}
			}
		}

		err := c.doAttempt(ctx, engine, params, opt.timeout, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var upErr *domain.UpstreamError
		if !errors.As(err, &upErr) || !upErr.Retryable() {
			return err
		}
	}

	return lastErr
}

// doAttempt performs exactly one HTTP GET under a per-attempt deadline
func (c *TransparencyClient) doAttempt(ctx context.Context, engine string, params url.Values, timeout time.Duration, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordUpstreamFailure(engine, "rate_limit")
		return &domain.UpstreamError{Kind: domain.UpstreamKindNetwork, Message: "rate limit wait aborted", Err: err}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.metrics.RecordUpstreamFailure(engine, "request_creation")
		return fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			c.metrics.RecordUpstreamFailure(engine, "timeout")
			return &domain.UpstreamError{Kind: domain.UpstreamKindTimeout, Message: "upstream request deadline exceeded", Err: err}
		}
		c.metrics.RecordUpstreamFailure(engine, "network_error")
		return &domain.UpstreamError{Kind: domain.UpstreamKindNetwork, Message: "upstream request failed", Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordUpstreamCall(engine, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return &domain.UpstreamError{
			Kind:    domain.UpstreamKindHTTP,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("upstream returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordUpstreamFailure(engine, "read_body")
		return &domain.UpstreamError{Kind: domain.UpstreamKindNetwork, Message: "failed to read upstream response", Err: err}
	}

	// The envelope status gates the payload regardless of HTTP 200
	var envelope struct {
		SearchMetadata domain.SearchMetadata `json:"search_metadata"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.metrics.RecordUpstreamFailure(engine, "json_parse")
		return &domain.UpstreamError{Kind: domain.UpstreamKindHTTP, Message: "failed to parse upstream response", Err: err}
	}
	if status := strings.ToLower(envelope.SearchMetadata.Status); status != "success" {
		c.metrics.RecordUpstreamCall(engine, "status_"+status, duration)
		return &domain.UpstreamError{
			Kind:    domain.UpstreamKindHTTP,
			Message: fmt.Sprintf("upstream search status %q", envelope.SearchMetadata.Status),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.RecordUpstreamFailure(engine, "json_parse")
		return &domain.UpstreamError{Kind: domain.UpstreamKindHTTP, Message: "failed to decode upstream payload", Err: err}
	}

	c.metrics.RecordUpstreamCall(engine, "success", duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"engine":   engine,
		"duration": duration,
	}).Debug("Upstream request completed")

	return nil
}

// sleepCtx blocks for d or until ctx is done, releasing the timer either way
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
