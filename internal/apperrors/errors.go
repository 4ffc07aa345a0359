package apperrors

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingField is returned when a required request field is absent or empty.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidAddress is returned when a token or taker is not a 20-byte hex address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned when an amount is not a non-negative base-10 integer.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMalformedUpstreamResponse is returned when an upstream answered 2xx
	// with a body that lacks the fields we need.
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")

	// ErrNotConfigured is returned by optional collaborators that were not configured.
	ErrNotConfigured = errors.New("not configured")
)

// IsValidation reports whether err is caused by bad client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidAmount)
}

// UpstreamError is a non-2xx answer from the aggregator.
// Body holds the decoded JSON payload, or the raw text when it was not JSON.
type UpstreamError struct {
	Status int
	Body   any
}

// NewUpstreamError decodes raw as JSON when possible.
func NewUpstreamError(status int, raw []byte) *UpstreamError {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		body = string(raw)
	}
	return &UpstreamError{Status: status, Body: body}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// MalformedResponseError carries the raw upstream payload that could not be used.
// Fields names the entries that were absent or unparsable.
type MalformedResponseError struct {
	Fields []string
	Raw    json.RawMessage
}

func (e *MalformedResponseError) Error() string {
	if len(e.Fields) == 0 {
		return ErrMalformedUpstreamResponse.Error()
	}
	return fmt.Sprintf("%s: missing or invalid %s", ErrMalformedUpstreamResponse, strings.Join(e.Fields, ", "))
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedUpstreamResponse
}
