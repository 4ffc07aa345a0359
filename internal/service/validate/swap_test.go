package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
)

const (
	usdc  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	dai   = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	taker = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

func ptr[T any](v T) *T { return &v }

func createValidInput() dto.SwapInput {
	return dto.SwapInput{
		SellToken:  usdc,
		BuyToken:   dai,
		SellAmount: "1000000",
		Taker:      taker,
	}
}

func TestSwapRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mutate       func(in *dto.SwapInput)
		requireTaker bool
		wantErr      error
		wantMsg      string
	}{
		{
			name:   "valid preview",
			mutate: func(*dto.SwapInput) {},
		},
		{
			name:         "valid execution",
			mutate:       func(*dto.SwapInput) {},
			requireTaker: true,
		},
		{
			name:   "preview without taker",
			mutate: func(in *dto.SwapInput) { in.Taker = "" },
		},
		{
			name:         "execution without taker",
			mutate:       func(in *dto.SwapInput) { in.Taker = "" },
			requireTaker: true,
			wantErr:      apperrors.ErrMissingField,
			wantMsg:      "taker",
		},
		{
			name:    "missing sell token",
			mutate:  func(in *dto.SwapInput) { in.SellToken = "" },
			wantErr: apperrors.ErrMissingField,
			wantMsg: "sellToken",
		},
		{
			name:    "missing buy token",
			mutate:  func(in *dto.SwapInput) { in.BuyToken = "  " },
			wantErr: apperrors.ErrMissingField,
			wantMsg: "buyToken",
		},
		{
			name:    "missing amount",
			mutate:  func(in *dto.SwapInput) { in.SellAmount = "" },
			wantErr: apperrors.ErrMissingField,
			wantMsg: "sellAmount",
		},
		{
			name:    "bad sell token",
			mutate:  func(in *dto.SwapInput) { in.SellToken = "0x123" },
			wantErr: apperrors.ErrInvalidAddress,
			wantMsg: "sellToken",
		},
		{
			name:    "address without prefix",
			mutate:  func(in *dto.SwapInput) { in.BuyToken = "6B175474E89094C44Da98b954EedeAC495271d0F" },
			wantErr: apperrors.ErrInvalidAddress,
		},
		{
			name:    "bad taker",
			mutate:  func(in *dto.SwapInput) { in.Taker = "alice" },
			wantErr: apperrors.ErrInvalidAddress,
			wantMsg: "taker",
		},
		{
			name:    "decimal amount",
			mutate:  func(in *dto.SwapInput) { in.SellAmount = "1.5" },
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(in *dto.SwapInput) { in.SellAmount = "-1" },
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "hex amount",
			mutate:  func(in *dto.SwapInput) { in.SellAmount = "0x10" },
			wantErr: apperrors.ErrInvalidAmount,
		},
		{
			name:    "other chain",
			mutate:  func(in *dto.SwapInput) { in.ChainID = ptr[uint64](137) },
			wantErr: apperrors.ErrInvalidArgument,
		},
		{
			name:   "same chain",
			mutate: func(in *dto.SwapInput) { in.ChainID = ptr[uint64](1) },
		},
		{
			name:    "nan slippage",
			mutate:  func(in *dto.SwapInput) { in.Slippage = ptr(math.NaN()) },
			wantErr: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := createValidInput()
			tt.mutate(&in)

			got, err := SwapRequestValidate(in, tt.requireTaker, 1)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.wantMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint64(1), got.ChainID)
			require.Equal(t, in.SellAmount, got.SellAmount.String())
		})
	}
}

func TestSwapRequestValidate_Native(t *testing.T) {
	t.Parallel()

	for _, symbol := range []string{"ETH", "eth", dto.NativeToken, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"} {
		t.Run(symbol, func(t *testing.T) {
			t.Parallel()

			in := createValidInput()
			in.SellToken = symbol

			got, err := SwapRequestValidate(in, false, 1)
			require.NoError(t, err)
			require.Equal(t, dto.NativeToken, got.SellToken)
			require.True(t, got.SellsNative())
		})
	}

	t.Run("buy side", func(t *testing.T) {
		t.Parallel()

		in := createValidInput()
		in.BuyToken = "ETH"

		got, err := SwapRequestValidate(in, false, 1)
		require.NoError(t, err)
		require.Equal(t, dto.NativeToken, got.BuyToken)
		require.False(t, got.SellsNative())
	})
}

func TestSwapRequestValidate_LargeAmount(t *testing.T) {
	t.Parallel()

	in := createValidInput()
	in.SellAmount = "99999999999999999999999999999999999999999999999999"

	got, err := SwapRequestValidate(in, false, 1)
	require.NoError(t, err)
	require.Equal(t, in.SellAmount, got.SellAmount.String())
}
