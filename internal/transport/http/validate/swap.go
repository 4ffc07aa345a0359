package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/fleshka4/swap-proxy/internal/apperrors"
	"github.com/fleshka4/swap-proxy/internal/transport/http/dto"
)

const maxBodyBytes = 1 << 20

// SwapRequestValidate decodes and checks the body of /quote and /swap.
// Field contents (addresses, amounts) are checked by the service.
func SwapRequestValidate(r *http.Request, requireTaker bool) (*dto.SwapRequest, int, error) {
	if r.Method != http.MethodPost {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}

	var req dto.SwapRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return nil, http.StatusBadRequest, errors.Wrap(apperrors.ErrInvalidArgument, "malformed JSON body")
	}

	if err := checkStruct(req); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if requireTaker && strings.TrimSpace(req.Taker) == "" {
		return nil, http.StatusBadRequest, errors.Wrap(apperrors.ErrMissingField, "taker is required")
	}

	return &req, 0, nil
}
