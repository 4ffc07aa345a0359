package validate

import (
	"net/http"

	"github.com/creasty/defaults"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/transport/http/dto"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// PoolsRequestValidate reads the /pools query, defaulting first to 20.
func PoolsRequestValidate(r *http.Request) (*dto.PoolsRequest, int, error) {
	if r.Method != http.MethodGet {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}

	var req dto.PoolsRequest
	if err := defaults.Set(&req); err != nil {
		return nil, http.StatusInternalServerError, errors.Wrap(err, "defaults.Set")
	}
	if err := queryDecoder.Decode(&req, r.URL.Query()); err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(apperrors.ErrInvalidArgument, "first must be an integer")
	}
	if err := checkStruct(req); err != nil {
		return nil, http.StatusBadRequest, err
	}

	return &req, 0, nil
}
