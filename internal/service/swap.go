package service

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/mo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/service/dto"
	"github.com/fleshka4/swap-proxy/internal/service/validate"
	"github.com/fleshka4/swap-proxy/internal/units"
)

// Price validates the input and returns the aggregator's indicative price verbatim.
// A taker is optional here.
func (s *SwapService) Price(ctx context.Context, in dto.SwapInput) (json.RawMessage, error) {
	req, err := validate.SwapRequestValidate(in, false, s.params.ChainID)
	if err != nil {
		return nil, err
	}

	price, err := s.aggregatorClient.Price(ctx, BuildUpstreamParams(req, s.params))
	if err != nil {
		return nil, errors.Wrap(err, "s.aggregatorClient.Price")
	}
	return price, nil
}

// Swap performs the complete flow for an executable swap.
//
// It validates the request, fetches a firm quote for the same parameters a
// price preview would use, extracts the transaction and, when a node is
// configured, attaches gas and fee hints. Hint failures never fail the swap.
func (s *SwapService) Swap(ctx context.Context, in dto.SwapInput) (*dto.OutboundTransaction, error) {
	req, err := validate.SwapRequestValidate(in, true, s.params.ChainID)
	if err != nil {
		return nil, err
	}

	quote, err := s.aggregatorClient.Quote(ctx, BuildUpstreamParams(req, s.params))
	if err != nil {
		return nil, errors.Wrap(err, "s.aggregatorClient.Quote")
	}

	tx, err := BuildTransaction(quote, req)
	if err != nil {
		s.log.Error("firm quote has no usable transaction", zap.Error(err))
		return nil, errors.Wrap(err, "BuildTransaction")
	}

	if s.oracle != nil {
		tx = s.augmentWithGasAndFees(ctx, tx, req.Taker)
	}

	return &tx, nil
}

// augmentWithGasAndFees queries gas and fees concurrently and fills whatever succeeded.
func (s *SwapService) augmentWithGasAndFees(ctx context.Context, tx dto.OutboundTransaction, taker string) dto.OutboundTransaction {
	var (
		wg   sync.WaitGroup
		gas  mo.Result[*big.Int]
		fees mo.Result[dto.FeeSuggestion]
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		gas = s.oracle.EstimateGas(ctx, tx, taker)
	}()
	go func() {
		defer wg.Done()
		fees = s.oracle.SuggestFees(ctx)
	}()
	wg.Wait()

	var skipped error

	if limit, err := gas.Get(); err != nil {
		skipped = multierr.Append(skipped, errors.Wrap(err, "estimate gas"))
		s.metrics.AugmentationFailed("estimate_gas")
	} else {
		tx.Gas = units.ToHex(limit)
	}

	if f, err := fees.Get(); err != nil {
		skipped = multierr.Append(skipped, errors.Wrap(err, "suggest fees"))
		s.metrics.AugmentationFailed("fees")
	} else {
		tx.MaxFeePerGas = units.ToHex(f.MaxFeePerGas)
		tx.MaxPriorityFeePerGas = units.ToHex(f.MaxPriorityFeePerGas)
	}

	if skipped != nil {
		s.log.Warn("transaction returned without some gas hints", zap.Error(skipped))
	}

	return tx
}
