package service

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/samber/mo"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/infra/aggregator"
	"github.com/fleshka4/swap-proxy/internal/metrics"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
)

// Service represents interface for business logic.
type Service interface {
	// Price returns the aggregator's indicative price verbatim.
	Price(ctx context.Context, in dto.SwapInput) (json.RawMessage, error)
	// Swap returns an unsigned transaction ready for the taker's wallet.
	Swap(ctx context.Context, in dto.SwapInput) (*dto.OutboundTransaction, error)
}

// GasOracle supplies best-effort gas and fee hints.
type GasOracle interface {
	EstimateGas(ctx context.Context, tx dto.OutboundTransaction, from string) mo.Result[*big.Int]
	SuggestFees(ctx context.Context) mo.Result[dto.FeeSuggestion]
}

// SwapService represents struct for business logic.
type SwapService struct {
	aggregatorClient aggregator.Client
	// oracle is nil when no node is configured.
	oracle  GasOracle
	params  ParamsConfig
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewSwapService creates SwapService. oracle may be nil.
func NewSwapService(cli aggregator.Client, oracle GasOracle, params ParamsConfig, log *zap.Logger, m *metrics.Metrics) *SwapService {
	return &SwapService{
		aggregatorClient: cli,
		oracle:           oracle,
		params:           params,
		log:              log.Named("service"),
		metrics:          m,
	}
}
