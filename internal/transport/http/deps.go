package http

//go:generate mockgen -source=deps.go -destination=mock/deps.go -package=mock

import (
	"context"

	"github.com/fleshka4/swap-proxy/internal/infra/subgraph"
	"github.com/fleshka4/swap-proxy/internal/news"
)

// PoolLister lists liquidity pools for /pools.
type PoolLister interface {
	Pools(ctx context.Context, first int) ([]subgraph.Pool, error)
}

// NewsFeed serves the latest merged headlines for /news.
type NewsFeed interface {
	Snapshot() news.Snapshot
}
