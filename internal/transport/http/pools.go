package http

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/infra/subgraph"
	"github.com/fleshka4/swap-proxy/internal/news"
	"github.com/fleshka4/swap-proxy/internal/transport/http/validate"
)

type poolsResponse struct {
	Pools []subgraph.Pool `json:"pools"`
}

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	if s.pools == nil {
		s.writeError(w, errors.Wrap(apperrors.ErrNotConfigured, "pools"))
		return
	}

	req, code, err := validate.PoolsRequestValidate(r)
	if err != nil {
		s.writeMessage(w, code, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	pools, err := s.pools.Pools(ctx, req.First)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotConfigured):
		s.writeError(w, err)
		return
	default:
		s.log.Warn("pool listing failed", zap.Error(err))
		s.writeMessage(w, http.StatusBadGateway, "pool listing unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, poolsResponse{Pools: pools})
}

func (s *Server) handleNews(w http.ResponseWriter, _ *http.Request) {
	snap := news.Snapshot{Items: []news.Item{}}
	if s.news != nil {
		snap = s.news.Snapshot()
	}
	s.writeJSON(w, http.StatusOK, snap)
}
