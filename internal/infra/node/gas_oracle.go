package node

//go:generate mockgen -source=gas_oracle.go -destination=mock/gas_oracle.go -package=mock

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/samber/mo"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/dexmath"
	"github.com/fleshka4/swap-proxy/internal/metrics"
	"github.com/fleshka4/swap-proxy/internal/service/dto"
	"github.com/fleshka4/swap-proxy/internal/units"
)

const (
	upstreamName = "node"

	breakerFailures = 5
	breakerCooldown = 30 * time.Second

	// JSON-RPC error code for a reverted call (EIP-1474 / geth).
	revertErrorCode = 3
)

// fallbackPriorityFee is used when the node cannot suggest a tip: 1.5 gwei.
// Never hand it out directly, see fallbackTip.
var fallbackPriorityFee = big.NewInt(1_500_000_000)

// ErrNoBaseFee is returned for pre-London blocks.
var ErrNoBaseFee = errors.New("latest block has no base fee")

// EthClient represents the node calls needed for gas and fee hints.
// *ethclient.Client satisfies it.
type EthClient interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// GasOracle produces best-effort gas limits and EIP-1559 fees from a node.
type GasOracle struct {
	eth     EthClient
	cb      *gobreaker.CircuitBreaker[any]
	log     *zap.Logger
	metrics *metrics.Metrics

	callTimeout time.Duration
}

// NewGasOracle dials rpcURL. The rpc client inside owns its own request id counter.
func NewGasOracle(rpcURL string, callTimeout time.Duration, log *zap.Logger, m *metrics.Metrics) (*GasOracle, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	return newGasOracleWithClient(eth, callTimeout, log, m), nil
}

func newGasOracleWithClient(eth EthClient, callTimeout time.Duration, log *zap.Logger, m *metrics.Metrics) *GasOracle {
	log = log.Named(upstreamName)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "node-rpc",
		Timeout: breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		IsSuccessful: nodeHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &GasOracle{
		eth:     eth,
		cb:      cb,
		log:     log,
		metrics: m,

		callTimeout: callTimeout,
	}
}

// EstimateGas simulates tx from the taker and returns the estimate plus a 20% buffer.
func (g *GasOracle) EstimateGas(ctx context.Context, tx dto.OutboundTransaction, from string) mo.Result[*big.Int] {
	msg, err := callMsg(tx, from)
	if err != nil {
		return mo.Err[*big.Int](err)
	}

	est, err := call(ctx, g, "estimate_gas", func(ctx context.Context) (uint64, error) {
		return g.eth.EstimateGas(ctx, msg)
	}).Get()
	if err != nil {
		return mo.Err[*big.Int](err)
	}

	buffered, ok := dexmath.BufferGas(new(big.Int).SetUint64(est))
	if !ok {
		return mo.Err[*big.Int](errors.Errorf("cannot buffer gas estimate %d", est))
	}
	return mo.Ok(buffered)
}

// SuggestFees reads the latest base fee and a priority fee.
// A missing tip falls back to 1.5 gwei; a missing base fee fails the whole suggestion.
func (g *GasOracle) SuggestFees(ctx context.Context) mo.Result[dto.FeeSuggestion] {
	baseFee := call(ctx, g, "latest_header", func(ctx context.Context) (*types.Header, error) {
		return g.eth.HeaderByNumber(ctx, nil)
	}).FlatMap(func(h *types.Header) mo.Result[*types.Header] {
		if h == nil || h.BaseFee == nil {
			return mo.Err[*types.Header](ErrNoBaseFee)
		}
		return mo.Ok(h)
	})

	tip := call(ctx, g, "priority_fee", g.eth.SuggestGasTipCap).
		MapErr(func(err error) (*big.Int, error) {
			g.log.Warn("priority fee unavailable, using fallback",
				zap.Error(err),
				zap.String("fallback_wei", fallbackPriorityFee.String()),
			)
			g.metrics.AugmentationFailed("priority_fee")
			return fallbackTip(), nil
		})

	header, err := baseFee.Get()
	if err != nil {
		return mo.Err[dto.FeeSuggestion](err)
	}

	priority := tip.OrElse(fallbackTip())
	maxFee, ok := dexmath.MaxFeePerGas(header.BaseFee, priority)
	if !ok {
		return mo.Err[dto.FeeSuggestion](errors.Errorf("cannot derive max fee from base %s and tip %s", header.BaseFee, priority))
	}
	return mo.Ok(dto.FeeSuggestion{
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: priority,
	})
}

func fallbackTip() *big.Int {
	return new(big.Int).Set(fallbackPriorityFee)
}

// call runs fn under the per-call timeout and the circuit breaker.
func call[T any](ctx context.Context, g *GasOracle, op string, fn func(context.Context) (T, error)) mo.Result[T] {
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	out, err := g.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		g.metrics.UpstreamCall(upstreamName, op, metrics.OutcomeError)
		return mo.Err[T](errors.Wrapf(err, "node %s", op))
	}
	g.metrics.UpstreamCall(upstreamName, op, metrics.OutcomeOK)

	v, ok := out.(T)
	if !ok {
		return mo.Err[T](errors.Errorf("node %s: unexpected result type %T", op, out))
	}
	return mo.Ok(v)
}

// nodeHealthy reports whether err still counts as a working node for the breaker.
// Reverts are answers about one transaction and cancellations come from the caller.
func nodeHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}

func callMsg(tx dto.OutboundTransaction, from string) (ethereum.CallMsg, error) {
	if !common.IsHexAddress(tx.To) {
		return ethereum.CallMsg{}, errors.Errorf("bad transaction target %q", tx.To)
	}
	data, err := hexutil.Decode(tx.Data)
	if err != nil {
		return ethereum.CallMsg{}, errors.Wrap(err, "hexutil.Decode")
	}
	value, err := units.ParseQuantity(tx.Value)
	if err != nil {
		return ethereum.CallMsg{}, errors.Wrap(err, "units.ParseQuantity")
	}

	to := common.HexToAddress(tx.To)
	msg := ethereum.CallMsg{
		To:    &to,
		Data:  data,
		Value: value,
	}
	if from != "" {
		msg.From = common.HexToAddress(from)
	}
	return msg, nil
}
