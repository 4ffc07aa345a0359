package units

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
)

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "one ether", in: "1000000000000000000", want: "1000000000000000000"},
		{name: "zero", in: "0", want: "0"},
		{name: "leading zeros", in: "007", want: "7"},
		{name: "beyond uint256", in: "231584178474632390847141970017375815706539969331281128078915168015826259279872", want: "231584178474632390847141970017375815706539969331281128078915168015826259279872"},
		{name: "empty", in: "", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "plus sign", in: "+1", wantErr: true},
		{name: "decimal point", in: "1.5", wantErr: true},
		{name: "exponent", in: "1e18", wantErr: true},
		{name: "hex", in: "0x10", wantErr: true},
		{name: "whitespace", in: " 1", wantErr: true},
		{name: "underscore", in: "1_000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDecimal(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestToHex(t *testing.T) {
	t.Parallel()

	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)

	assert.Equal(t, "0xde0b6b3a7640000", ToHex(oneEther))
	assert.Equal(t, "0x0", ToHex(big.NewInt(0)))
	assert.Equal(t, "0x0", ToHex(nil))
	assert.Equal(t, "0xff", ToHex(big.NewInt(255)))
}

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "hex", in: "0x5208", want: 21000},
		{name: "hex upper prefix", in: "0X5208", want: 21000},
		{name: "hex leading zero", in: "0x05208", want: 21000},
		{name: "decimal", in: "21000", want: 21000},
		{name: "zero hex", in: "0x0", want: 0},
		{name: "bare prefix", in: "0x", wantErr: true},
		{name: "garbage", in: "0xzz", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseQuantity(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestQuantityFromJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		want        int64
		wantPresent bool
		wantErr     bool
	}{
		{name: "absent", raw: ``},
		{name: "null", raw: `null`},
		{name: "empty string", raw: `""`},
		{name: "decimal string", raw: `"100"`, want: 100, wantPresent: true},
		{name: "hex string", raw: `"0x64"`, want: 100, wantPresent: true},
		{name: "number", raw: `100`, want: 100, wantPresent: true},
		{name: "float number", raw: `1.5`, wantPresent: true, wantErr: true},
		{name: "bad string", raw: `"abc"`, wantPresent: true, wantErr: true},
		{name: "object", raw: `{}`, wantPresent: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, present, err := QuantityFromJSON(json.RawMessage(tt.raw))
			require.Equal(t, tt.wantPresent, present)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantPresent {
				require.Equal(t, tt.want, got.Int64())
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	t.Parallel()

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	inputs := []string{
		"0",
		"1",
		"15",
		"16",
		"21000",
		"1000000000000000000",
		"123456789012345678901234567890",
		maxUint256.String(),
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			t.Parallel()

			parsed, err := ParseDecimal(s)
			require.NoError(t, err)

			back, err := ParseQuantity(ToHex(parsed))
			require.NoError(t, err)
			require.Zero(t, parsed.Cmp(back))
			require.Equal(t, s, back.String())
		})
	}
}
