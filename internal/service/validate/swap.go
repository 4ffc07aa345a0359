package validate

import (
	"math"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
	"github.com/fleshka4/swap-proxy/internal/units"
)

// nativeSymbol is accepted in place of the native sentinel address.
const nativeSymbol = "ETH"

// SwapRequestValidate checks a swap input and normalizes it.
//
// requireTaker is set for executable quotes, where the aggregator needs to know
// who will send the transaction. chainID is the only chain this deployment serves.
func SwapRequestValidate(in dto.SwapInput, requireTaker bool, chainID uint64) (dto.SwapRequest, error) {
	type field struct {
		name  string
		value string
	}
	required := []field{
		{name: "sellToken", value: in.SellToken},
		{name: "buyToken", value: in.BuyToken},
		{name: "sellAmount", value: in.SellAmount},
	}
	if requireTaker {
		required = append(required, field{name: "taker", value: in.Taker})
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return dto.SwapRequest{}, errors.Wrapf(apperrors.ErrMissingField, "%s is required", f.name)
		}
	}

	sellToken, err := normalizeToken(in.SellToken)
	if err != nil {
		return dto.SwapRequest{}, errors.Wrap(err, "sellToken")
	}
	buyToken, err := normalizeToken(in.BuyToken)
	if err != nil {
		return dto.SwapRequest{}, errors.Wrap(err, "buyToken")
	}

	taker := strings.TrimSpace(in.Taker)
	if taker != "" && !isAddress(taker) {
		return dto.SwapRequest{}, errors.Wrapf(apperrors.ErrInvalidAddress, "taker %q", taker)
	}

	amount, err := units.ParseDecimal(strings.TrimSpace(in.SellAmount))
	if err != nil {
		return dto.SwapRequest{}, errors.Wrap(err, "sellAmount")
	}

	if in.ChainID != nil && *in.ChainID != chainID {
		return dto.SwapRequest{}, errors.Wrapf(apperrors.ErrInvalidArgument, "unsupported chainId %d, only %d is served", *in.ChainID, chainID)
	}

	if in.Slippage != nil && (math.IsNaN(*in.Slippage) || math.IsInf(*in.Slippage, 0)) {
		return dto.SwapRequest{}, errors.Wrap(apperrors.ErrInvalidArgument, "slippagePercentage must be a finite number")
	}

	return dto.SwapRequest{
		SellToken:  sellToken,
		BuyToken:   buyToken,
		SellAmount: amount,
		Taker:      taker,
		Slippage:   in.Slippage,
		ChainID:    chainID,
	}, nil
}

func normalizeToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	switch {
	case strings.EqualFold(token, nativeSymbol), strings.EqualFold(token, dto.NativeToken):
		return dto.NativeToken, nil
	case isAddress(token):
		return token, nil
	default:
		return "", errors.Wrapf(apperrors.ErrInvalidAddress, "%q", token)
	}
}

func isAddress(s string) bool {
	return (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) && common.IsHexAddress(s)
}
