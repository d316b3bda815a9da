// Package lookup resolves one phone number to operator and region metadata.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/numinfo/internal/cache"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/phone"
	"go.uber.org/zap"
)

// Client performs a single lookup. Implementations always return either a
// record or a *Error.
type Client interface {
	Lookup(ctx context.Context, raw string) (model.LookupRecord, error)
}

// Waiter gates outbound requests (see worker.Limiter)
type Waiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// HTTPClient queries the remote lookup API
type HTTPClient struct {
	httpClient *http.Client
	endpoint   Endpoint
	userAgent  string
	maxBytes   int64
	limiter    Waiter
	cache      cache.Cache
	cacheTTL   time.Duration
	notifier   notify.Notifier
	logger     *zap.Logger
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithLimiter waits on l before every request
func WithLimiter(l Waiter) Option {
	return func(c *HTTPClient) { c.limiter = l }
}

// WithCache caches successful response bodies
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *HTTPClient) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithNotifier reports failures to n
func WithNotifier(n notify.Notifier) Option {
	return func(c *HTTPClient) { c.notifier = n }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithProxy routes requests through explicit outbound proxies
func WithProxy(httpProxy, httpsProxy, noProxy string) Option {
	return func(c *HTTPClient) {
		c.httpClient.Transport = &http.Transport{
			Proxy: proxyFunc(httpProxy, httpsProxy, noProxy),
		}
	}
}

// NewHTTPClient creates a client for the given endpoint
func NewHTTPClient(endpoint Endpoint, timeout time.Duration, userAgent string, maxBytes int64, opts ...Option) *HTTPClient {
	if maxBytes <= 0 {
		maxBytes = 64 << 10
	}

	c := &HTTPClient{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		endpoint:  endpoint,
		userAgent: userAgent,
		maxBytes:  maxBytes,
		notifier:  notify.Nop{},
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup resolves raw to a record
func (c *HTTPClient) Lookup(ctx context.Context, raw string) (model.LookupRecord, error) {
	record, err := c.lookup(ctx, raw)
	if err != nil {
		c.report(err)
		return model.LookupRecord{}, err
	}
	return record, nil
}

func (c *HTTPClient) lookup(ctx context.Context, raw string) (model.LookupRecord, error) {
	digits := phone.Digits(raw)
	if len(digits) < phone.MinDigits {
		return model.LookupRecord{}, invalidInput(raw)
	}

	params := url.Values{}
	params.Set("num", digits)

	body, err := c.get(ctx, raw, params, cache.Key(digits))
	if err != nil {
		return model.LookupRecord{}, err
	}

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return model.LookupRecord{}, decodeError(raw, errNullBody)
	}
	var record model.LookupRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return model.LookupRecord{}, decodeError(raw, err)
	}

	c.store(cache.Key(digits), body)
	c.logger.Debug("lookup resolved",
		zap.String("num", digits),
		zap.String("operator", record.Operator),
		zap.String("region", record.Region))

	return record, nil
}

// FetchField requests a single field as plain text. translit asks the
// service for a Latin transliteration.
func (c *HTTPClient) FetchField(ctx context.Context, raw, field string, translit bool) (string, error) {
	value, err := c.fetchField(ctx, raw, field, translit)
	if err != nil {
		c.report(err)
		return "", err
	}
	return value, nil
}

func (c *HTTPClient) fetchField(ctx context.Context, raw, field string, translit bool) (string, error) {
	digits := phone.Digits(raw)
	if len(digits) < phone.MinDigits {
		return "", invalidInput(raw)
	}

	params := url.Values{}
	params.Set("num", digits)
	params.Set("field", field)
	key := cache.Key(digits, field)
	if translit {
		params.Set("translit", "1")
		key = cache.Key(digits, field, "translit")
	}

	body, err := c.get(ctx, raw, params, key)
	if err != nil {
		return "", err
	}

	c.store(key, body)
	return strings.TrimSpace(string(body)), nil
}

// get returns the response body for params, consulting the cache first
func (c *HTTPClient) get(ctx context.Context, raw string, params url.Values, key string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			c.logger.Debug("cache hit", zap.String("num", params.Get("num")))
			return body, nil
		}
	}

	target := c.endpoint.URL(params)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, target); err != nil {
			return nil, transportError(raw, "rate limit wait", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, transportError(raw, "create request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(raw, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, remoteError(raw, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, transportError(raw, "read body", err)
	}

	return body, nil
}

func (c *HTTPClient) store(key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

func (c *HTTPClient) report(err error) {
	input := ""
	if le, ok := err.(*Error); ok {
		input = le.Input
	}
	c.logger.Warn("lookup failed",
		zap.String("input", input),
		zap.Stringer("kind", KindOf(err)),
		zap.Error(err))
	c.notifier.Notify(notify.Error(err.Error()))
}
