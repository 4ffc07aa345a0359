package service

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
	"github.com/fleshka4/swap-proxy/internal/units"
)

type firmQuote struct {
	Transaction *struct {
		To    string          `json:"to"`
		Data  string          `json:"data"`
		Value json.RawMessage `json:"value"`
		Gas   json.RawMessage `json:"gas"`
	} `json:"transaction"`
}

// BuildTransaction extracts the executable transaction from a firm quote.
//
// Selling the native asset always attaches sellAmount as value. Otherwise the
// upstream value is kept when present and zero is sent when absent.
func BuildTransaction(quote json.RawMessage, req dto.SwapRequest) (dto.OutboundTransaction, error) {
	var q firmQuote
	if err := json.Unmarshal(quote, &q); err != nil || q.Transaction == nil {
		return dto.OutboundTransaction{}, &apperrors.MalformedResponseError{
			Fields: []string{"transaction"},
			Raw:    quote,
		}
	}
	in := q.Transaction

	var bad []string
	if in.To == "" || !common.IsHexAddress(in.To) {
		bad = append(bad, "to")
	}
	if in.Data == "" {
		bad = append(bad, "data")
	}

	tx := dto.OutboundTransaction{
		To:    in.To,
		Data:  in.Data,
		Value: "0x0",
	}

	if req.SellsNative() {
		tx.Value = units.ToHex(req.SellAmount)
	} else {
		v, present, err := units.QuantityFromJSON(in.Value)
		switch {
		case err != nil:
			bad = append(bad, "value")
		case present:
			tx.Value = units.ToHex(v)
		}
	}

	gas, present, err := units.QuantityFromJSON(in.Gas)
	switch {
	case err != nil:
		bad = append(bad, "gas")
	case present:
		tx.Gas = units.ToHex(gas)
	}

	if len(bad) > 0 {
		return dto.OutboundTransaction{}, &apperrors.MalformedResponseError{Fields: bad, Raw: quote}
	}
	return tx, nil
}
