package subgraph

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hasura/go-graphql-client"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/metrics"
)

const (
	upstreamName = "subgraph"

	MaxFirst = 100
)

// Token is one side of a pool.
type Token struct {
	ID       string `json:"id" graphql:"id"`
	Symbol   string `json:"symbol" graphql:"symbol"`
	Name     string `json:"name" graphql:"name"`
	Decimals string `json:"decimals" graphql:"decimals"`
}

// Pool is a liquidity pool as reported by the indexer. Numeric fields stay
// strings because the indexer returns arbitrary precision decimals.
type Pool struct {
	ID                  string `json:"id" graphql:"id"`
	FeeTier             string `json:"feeTier" graphql:"feeTier"`
	Liquidity           string `json:"liquidity" graphql:"liquidity"`
	TotalValueLockedUSD string `json:"totalValueLockedUSD" graphql:"totalValueLockedUSD"`
	VolumeUSD           string `json:"volumeUSD" graphql:"volumeUSD"`
	Token0              Token  `json:"token0" graphql:"token0"`
	Token1              Token  `json:"token1" graphql:"token1"`
}

// Querier runs GraphQL queries. *graphql.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}, options ...graphql.Option) error
}

// Client lists pools ordered by TVL, caching each page size for a short TTL.
// The last good answer is kept without expiry and served when the indexer fails.
type Client struct {
	gql     Querier
	cache   *cache.Cache
	group   singleflight.Group
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewClient returns a Client for the indexer at cfg.URL.
// With an empty URL every call fails with apperrors.ErrNotConfigured.
func NewClient(cfg config.SubgraphConfig, log *zap.Logger, m *metrics.Metrics) *Client {
	var gql Querier
	if cfg.URL != "" {
		gql = graphql.NewClient(cfg.URL, &http.Client{Timeout: cfg.Timeout})
	}
	return newClientWithQuerier(gql, cfg.CacheTTL, log, m)
}

func newClientWithQuerier(gql Querier, ttl time.Duration, log *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		gql:     gql,
		cache:   cache.New(ttl, 2*ttl),
		log:     log,
		metrics: m,
	}
}

// Pools returns up to first pools. first is clamped to [1, MaxFirst].
func (c *Client) Pools(ctx context.Context, first int) ([]Pool, error) {
	if c.gql == nil {
		return nil, errors.Wrap(apperrors.ErrNotConfigured, "subgraph url")
	}

	first = clampFirst(first)
	key := "pools:" + strconv.Itoa(first)

	if v, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookup(upstreamName, true)
		return v.([]Pool), nil
	}
	c.metrics.CacheLookup(upstreamName, false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		pools, err := c.fetch(ctx, first)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, pools, cache.DefaultExpiration)
		c.cache.Set(staleKey(key), pools, cache.NoExpiration)
		return pools, nil
	})
	if err == nil {
		return v.([]Pool), nil
	}

	if stale, ok := c.cache.Get(staleKey(key)); ok {
		c.log.Warn("serving stale pools", zap.Int("first", first), zap.Error(err))
		return stale.([]Pool), nil
	}
	return nil, err
}

func (c *Client) fetch(ctx context.Context, first int) ([]Pool, error) {
	var q struct {
		Pools []Pool `graphql:"pools(first: $first, orderBy: totalValueLockedUSD, orderDirection: desc)"`
	}
	vars := map[string]interface{}{
		"first": graphql.Int(first),
	}

	if err := c.gql.Query(ctx, &q, vars); err != nil {
		c.metrics.UpstreamCall(upstreamName, "pools", metrics.OutcomeError)
		return nil, errors.Wrap(err, "c.gql.Query")
	}
	c.metrics.UpstreamCall(upstreamName, "pools", metrics.OutcomeOK)

	if q.Pools == nil {
		q.Pools = []Pool{}
	}
	return q.Pools, nil
}

func staleKey(key string) string {
	return key + ":stale"
}

func clampFirst(first int) int {
	switch {
	case first < 1:
		return 1
	case first > MaxFirst:
		return MaxFirst
	}
	return first
}
