package service

import (
	"net/url"
	"strconv"

	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/dexmath"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
)

// ParamsConfig holds the conventions applied to every upstream request.
type ParamsConfig struct {
	ChainID uint64
	// DefaultSlippage is a fraction, whatever SlippageUnit says.
	DefaultSlippage float64
	MaxSlippage     float64
	SlippageUnit    string
	Fee             config.FeeConfig
}

// NewParamsConfig extracts upstream conventions from the application config.
func NewParamsConfig(cfg config.Config) ParamsConfig {
	return ParamsConfig{
		ChainID:         cfg.Aggregator.ChainID,
		DefaultSlippage: cfg.Slippage.Default,
		MaxSlippage:     cfg.Slippage.Max,
		SlippageUnit:    cfg.Slippage.Unit,
		Fee:             cfg.Fee,
	}
}

// SlippageBps converts the client's slippage into basis points.
func (p ParamsConfig) SlippageBps(v *float64) int64 {
	fraction := p.DefaultSlippage
	if v != nil {
		fraction = *v
		if p.SlippageUnit == config.SlippageUnitBps {
			fraction /= 10_000
		}
	}
	return dexmath.SlippageBps(fraction, p.MaxSlippage)
}

// BuildUpstreamParams maps a validated request onto aggregator query parameters.
// Price and quote requests share it so a preview always matches the execution.
func BuildUpstreamParams(req dto.SwapRequest, p ParamsConfig) url.Values {
	chainID := req.ChainID
	if chainID == 0 {
		chainID = p.ChainID
	}
	if chainID == 0 {
		chainID = 1
	}

	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(chainID, 10))
	params.Set("sellToken", req.SellToken)
	params.Set("buyToken", req.BuyToken)
	params.Set("sellAmount", req.SellAmount.String())
	params.Set("slippageBps", strconv.FormatInt(p.SlippageBps(req.Slippage), 10))
	if req.Taker != "" {
		params.Set("taker", req.Taker)
	}
	if p.Fee.Enabled() {
		params.Set("feeRecipient", p.Fee.Recipient)
		params.Set("buyTokenPercentageFee", p.Fee.BuyTokenPercentageFee)
	}

	return params
}
