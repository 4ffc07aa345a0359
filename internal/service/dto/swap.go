package dto

import (
	"math/big"
	"strings"
)

// NativeToken is the aggregator's sentinel address for the chain's native asset.
const NativeToken = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// SwapInput is the raw, unvalidated request for a price preview or an executable swap.
type SwapInput struct {
	SellToken  string
	BuyToken   string
	SellAmount string
	Taker      string
	// Slippage is nil when the client did not send one.
	Slippage *float64
	ChainID  *uint64
}

// SwapRequest is a validated and normalized SwapInput.
type SwapRequest struct {
	SellToken  string
	BuyToken   string
	SellAmount *big.Int
	// Taker is empty for previews that did not supply one.
	Taker    string
	Slippage *float64
	ChainID  uint64
}

// SellsNative reports whether the sell side is the chain's native asset.
func (r SwapRequest) SellsNative() bool {
	return strings.EqualFold(r.SellToken, NativeToken)
}

// OutboundTransaction is the unsigned transaction handed back to the wallet.
// Quantities are 0x-prefixed hex; optional hints are omitted when unknown.
type OutboundTransaction struct {
	To                   string `json:"to"`
	Data                 string `json:"data"`
	Value                string `json:"value"`
	Gas                  string `json:"gas,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
}

// FeeSuggestion is an EIP-1559 fee pair in wei.
type FeeSuggestion struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}
