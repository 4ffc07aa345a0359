// Package units converts wei quantities between the decimal strings clients
// send and the hex quantities wallets and nodes expect.
package units

import (
	"bytes"
	"encoding/json"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
)

var (
	decimalPattern = regexp.MustCompile(`^[0-9]+$`)
	hexPattern     = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
)

// ParseDecimal parses a non-negative base-10 integer string.
// Signs, decimal points, exponents and whitespace are rejected.
func ParseDecimal(s string) (*big.Int, error) {
	if !decimalPattern.MatchString(s) {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q is not a base-10 integer", s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q is not a base-10 integer", s)
	}
	return v, nil
}

// ToHex renders v as a 0x-prefixed lowercase quantity, "0x0" for zero or nil.
func ToHex(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return hexutil.EncodeBig(v)
}

// ParseQuantity accepts a 0x-prefixed hex quantity or a base-10 integer.
// Leading zeros in hex are tolerated since upstreams are not always strict.
func ParseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if hexPattern.MatchString(s) {
		v, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q is not a hex quantity", s)
		}
		return v, nil
	}
	return ParseDecimal(s)
}

// QuantityFromJSON reads a quantity that may be a JSON string (hex or decimal)
// or a JSON number. present is false for absent, null and empty-string values.
func QuantityFromJSON(raw json.RawMessage) (v *big.Int, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false, errors.Wrap(err, "json.Unmarshal")
		}
		if strings.TrimSpace(s) == "" {
			return nil, false, nil
		}
		v, err := ParseQuantity(s)
		if err != nil {
			return nil, true, err
		}
		return v, true, nil
	}

	v, err = ParseDecimal(string(raw))
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}
