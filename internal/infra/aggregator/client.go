package aggregator

//go:generate mockgen -source=client.go -destination=mock/client.go -package=mock

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/metrics"
)

const (
	upstreamName = "aggregator"

	headerAPIKey     = "0x-api-key"
	headerAPIVersion = "0x-version"

	maxBodyBytes = 4 << 20
)

// Client defines an abstraction for the DEX aggregator's swap API.
type Client interface {
	// Price returns an indicative, non-binding price for the given parameters.
	Price(ctx context.Context, params url.Values) (json.RawMessage, error)
	// Quote returns a firm quote carrying an executable transaction.
	Quote(ctx context.Context, params url.Values) (json.RawMessage, error)
}

type httpClientImpl struct {
	http    *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
	log     *zap.Logger
	metrics *metrics.Metrics

	baseURL    string
	apiKey     string
	apiVersion string
	pricePath  string
	quotePath  string

	callTimeout time.Duration
}

// NewClient creates an aggregator Client over plain HTTP.
// Calls are never retried: a firm quote is only valid for a short window.
func NewClient(cfg config.AggregatorConfig, log *zap.Logger, m *metrics.Metrics) Client {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		if b := int(cfg.RequestsPerSecond); b > burst {
			burst = b
		}
	}

	return &httpClientImpl{
		http:    &http.Client{},
		limiter: rate.NewLimiter(limit, burst),
		tracer:  otel.Tracer("swap-proxy/aggregator"),
		log:     log.Named(upstreamName),
		metrics: m,

		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		apiVersion: cfg.APIVersion,
		pricePath:  cfg.PricePath,
		quotePath:  cfg.QuotePath,

		callTimeout: cfg.Timeout,
	}
}

// Price returns an indicative, non-binding price for the given parameters.
func (c *httpClientImpl) Price(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, "price", c.pricePath, params)
}

// Quote returns a firm quote carrying an executable transaction.
func (c *httpClientImpl) Quote(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, "quote", c.quotePath, params)
}

func (c *httpClientImpl) get(ctx context.Context, op, path string, params url.Values) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, upstreamName+"."+op, trace.WithAttributes(
		attribute.String("http.path", path),
		attribute.String("sell_token", params.Get("sellToken")),
		attribute.String("buy_token", params.Get("buyToken")),
	))
	defer span.End()

	body, status, err := c.do(ctx, path, params)
	if err != nil {
		c.metrics.UpstreamCall(upstreamName, op, metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.metrics.UpstreamCall(upstreamName, op, metrics.OutcomeRejected)
		span.SetStatus(codes.Error, http.StatusText(status))
		c.log.Warn("upstream rejected request",
			zap.String("op", op),
			zap.Int("status", status),
			zap.ByteString("body", truncate(body, 512)),
		)
		return nil, apperrors.NewUpstreamError(status, body)
	}

	if !json.Valid(body) {
		c.metrics.UpstreamCall(upstreamName, op, metrics.OutcomeError)
		raw, _ := json.Marshal(string(truncate(body, 512)))
		return nil, &apperrors.MalformedResponseError{Raw: raw}
	}

	c.metrics.UpstreamCall(upstreamName, op, metrics.OutcomeOK)
	return json.RawMessage(body), nil
}

func (c *httpClientImpl) do(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, errors.Wrap(err, "c.limiter.Wait")
	}

	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "http.NewRequestWithContext")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerAPIVersion, c.apiVersion)
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "c.http.Do")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug("resp.Body.Close", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, errors.Wrap(err, "io.ReadAll")
	}

	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
