package http

import (
	"context"
	"net/http"

	"github.com/fleshka4/swap-proxy/internal/service/dto"
	transportdto "github.com/fleshka4/swap-proxy/internal/transport/http/dto"
	"github.com/fleshka4/swap-proxy/internal/transport/http/validate"
)

type swapResponse struct {
	Tx *dto.OutboundTransaction `json:"tx"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("running"))
}

// handleQuote answers with the aggregator's indicative price, unchanged.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.SwapRequestValidate(r, false)
	if err != nil {
		s.writeMessage(w, code, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	price, err := s.svc.Price(ctx, toSwapInput(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRawJSON(w, http.StatusOK, price)
}

// handleSwap answers with an unsigned transaction ready for the taker's wallet.
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.SwapRequestValidate(r, true)
	if err != nil {
		s.writeMessage(w, code, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	tx, err := s.svc.Swap(ctx, toSwapInput(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, swapResponse{Tx: tx})
}

func toSwapInput(req *transportdto.SwapRequest) dto.SwapInput {
	return dto.SwapInput{
		SellToken:  req.SellToken,
		BuyToken:   req.BuyToken,
		SellAmount: req.SellAmount,
		Taker:      req.Taker,
		Slippage:   req.SlippagePercentage,
		ChainID:    req.ChainID,
	}
}
