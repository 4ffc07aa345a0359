package dexmath

import (
	"math"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	// Gas buffer: estimate + estimate/5.
	gasBufferDen = big.NewInt(5)
	// EIP-1559 headroom: 2 * baseFee outlasts five consecutive full blocks (+12.5% each).
	baseFeeMul = big.NewInt(2)

	bpsPerUnit = decimal.NewFromInt(10_000)

	defaultMath = newMathService()
)

type mathTmp struct {
	a *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{a: new(big.Int)}
			},
		},
	}
}

func (m *mathService) bufferGasInto(out, estimate *big.Int) bool {
	if out == nil {
		return false
	}
	if estimate == nil || estimate.Sign() < 0 {
		out.SetInt64(0)
		return false
	}

	t := m.pool.Get().(*mathTmp)

	// out = estimate + estimate/5.
	t.a.Quo(estimate, gasBufferDen)
	out.Add(estimate, t.a)

	m.pool.Put(t)
	return true
}

func (m *mathService) maxFeePerGasInto(out, baseFee, tip *big.Int) bool {
	if out == nil {
		return false
	}
	if baseFee == nil || tip == nil || baseFee.Sign() < 0 || tip.Sign() < 0 {
		out.SetInt64(0)
		return false
	}

	t := m.pool.Get().(*mathTmp)

	// out = baseFee * 2 + tip.
	t.a.Mul(baseFee, baseFeeMul)
	out.Add(t.a, tip)

	m.pool.Put(t)
	return true
}

// BufferGasInto writes estimate + estimate/5 (integer division) into out.
// Returns false if estimate is nil or negative.
func BufferGasInto(out, estimate *big.Int) bool {
	return defaultMath.bufferGasInto(out, estimate)
}

// BufferGas returns a newly allocated buffered gas limit, see BufferGasInto.
func BufferGas(estimate *big.Int) (*big.Int, bool) {
	out := new(big.Int)
	ok := defaultMath.bufferGasInto(out, estimate)
	return out, ok
}

// MaxFeePerGas returns baseFee*2 + tip.
// Returns (0, false) if any input is nil or negative.
func MaxFeePerGas(baseFee, tip *big.Int) (*big.Int, bool) {
	out := new(big.Int)
	ok := defaultMath.maxFeePerGasInto(out, baseFee, tip)
	return out, ok
}

// SlippageBps converts a slippage fraction into basis points:
// round(clamp(fraction, 0, maxFraction) * 10000).
//
// Arithmetic is decimal so 0.02 becomes exactly 200.
// NaN is treated as zero, +Inf as maxFraction.
func SlippageBps(fraction, maxFraction float64) int64 {
	if math.IsNaN(maxFraction) || math.IsInf(maxFraction, 0) || maxFraction < 0 {
		maxFraction = 0
	}
	switch {
	case math.IsNaN(fraction), fraction < 0:
		fraction = 0
	case math.IsInf(fraction, 1), fraction > maxFraction:
		fraction = maxFraction
	}

	return decimal.NewFromFloat(fraction).Mul(bpsPerUnit).Round(0).IntPart()
}
