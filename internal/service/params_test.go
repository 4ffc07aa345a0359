package service

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
)

const (
	usdc   = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	dai    = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	taker  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	router = "0x0000000000001fF3684f28c67538d4D072C22734"
)

func ptr[T any](v T) *T { return &v }

func defaultParams() ParamsConfig {
	return ParamsConfig{
		ChainID:         1,
		DefaultSlippage: 0.02,
		MaxSlippage:     0.2,
		SlippageUnit:    config.SlippageUnitFraction,
		Fee:             config.FeeConfig{BuyTokenPercentageFee: "0"},
	}
}

func TestBuildUpstreamParams(t *testing.T) {
	t.Parallel()

	base := dto.SwapRequest{
		SellToken:  usdc,
		BuyToken:   dai,
		SellAmount: big.NewInt(1_000_000),
		ChainID:    1,
	}

	tests := []struct {
		name     string
		req      func() dto.SwapRequest
		params   func() ParamsConfig
		wantBps  string
		wantKeys map[string]string
		absent   []string
	}{
		{
			name:    "defaults",
			req:     func() dto.SwapRequest { return base },
			params:  defaultParams,
			wantBps: "200",
			wantKeys: map[string]string{
				"chainId":    "1",
				"sellToken":  usdc,
				"buyToken":   dai,
				"sellAmount": "1000000",
			},
			absent: []string{"taker", "feeRecipient", "buyTokenPercentageFee"},
		},
		{
			name: "slippage clamped high",
			req: func() dto.SwapRequest {
				r := base
				r.Slippage = ptr(0.5)
				return r
			},
			params:  defaultParams,
			wantBps: "2000",
		},
		{
			name: "slippage clamped low",
			req: func() dto.SwapRequest {
				r := base
				r.Slippage = ptr(-1.0)
				return r
			},
			params:  defaultParams,
			wantBps: "0",
		},
		{
			name: "explicit zero slippage",
			req: func() dto.SwapRequest {
				r := base
				r.Slippage = ptr(0.0)
				return r
			},
			params:  defaultParams,
			wantBps: "0",
		},
		{
			name: "bps unit",
			req: func() dto.SwapRequest {
				r := base
				r.Slippage = ptr(75.0)
				return r
			},
			params: func() ParamsConfig {
				p := defaultParams()
				p.SlippageUnit = config.SlippageUnitBps
				return p
			},
			wantBps: "75",
		},
		{
			name: "taker forwarded",
			req: func() dto.SwapRequest {
				r := base
				r.Taker = taker
				return r
			},
			params:   defaultParams,
			wantBps:  "200",
			wantKeys: map[string]string{"taker": taker},
		},
		{
			name: "fee forwarded",
			req:  func() dto.SwapRequest { return base },
			params: func() ParamsConfig {
				p := defaultParams()
				p.Fee = config.FeeConfig{Recipient: taker, BuyTokenPercentageFee: "0.01"}
				return p
			},
			wantBps: "200",
			wantKeys: map[string]string{
				"feeRecipient":          taker,
				"buyTokenPercentageFee": "0.01",
			},
		},
		{
			name: "zero fee not forwarded",
			req:  func() dto.SwapRequest { return base },
			params: func() ParamsConfig {
				p := defaultParams()
				p.Fee = config.FeeConfig{Recipient: taker, BuyTokenPercentageFee: "0"}
				return p
			},
			wantBps: "200",
			absent:  []string{"feeRecipient", "buyTokenPercentageFee"},
		},
		{
			name: "chain defaults to configured",
			req: func() dto.SwapRequest {
				r := base
				r.ChainID = 0
				return r
			},
			params:   defaultParams,
			wantBps:  "200",
			wantKeys: map[string]string{"chainId": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := BuildUpstreamParams(tt.req(), tt.params())

			require.Equal(t, tt.wantBps, got.Get("slippageBps"))
			for k, v := range tt.wantKeys {
				require.Equal(t, v, got.Get(k), k)
			}
			for _, k := range tt.absent {
				require.False(t, got.Has(k), k)
			}
		})
	}
}
