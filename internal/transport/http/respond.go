package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/transport/http/dto"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response write error", zap.Error(err))
	}
}

func (s *Server) writeRawJSON(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.log.Warn("response write error", zap.Error(err))
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, dto.ErrorResponse{Message: msg})
}

// writeError maps a service error onto the response contract:
// validation failures are 400, upstream failures keep the upstream status,
// malformed quotes are 500 with the raw quote attached.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		upErr     *apperrors.UpstreamError
		malformed *apperrors.MalformedResponseError
	)

	switch {
	case apperrors.IsValidation(err):
		s.writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upErr):
		status := upErr.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		s.log.Warn("aggregator request failed", zap.Int("status", upErr.Status), zap.String("request_id", w.Header().Get(headerRequestID)))
		s.writeJSON(w, status, dto.ErrorResponse{Message: "aggregator request failed", Details: upErr.Body})
	case errors.As(err, &malformed):
		s.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Message: "aggregator returned a quote without a usable transaction",
			Raw:     rawValue(malformed.Raw),
		})
	case errors.Is(err, apperrors.ErrNotConfigured):
		s.writeMessage(w, http.StatusServiceUnavailable, "feature not configured")
	case errors.Is(err, context.DeadlineExceeded):
		s.log.Warn("upstream timeout", zap.Error(err), zap.String("request_id", w.Header().Get(headerRequestID)))
		s.writeMessage(w, http.StatusInternalServerError, "upstream request timed out")
	default:
		s.log.Error("request failed", zap.Error(err), zap.String("request_id", w.Header().Get(headerRequestID)))
		s.writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func rawValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return raw
	}
	return string(raw)
}
