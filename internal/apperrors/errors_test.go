package apperrors

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "missing field", err: errors.Wrap(ErrMissingField, "taker is required"), want: true},
		{name: "invalid address", err: errors.Wrap(ErrInvalidAddress, "sellToken"), want: true},
		{name: "invalid amount", err: ErrInvalidAmount, want: true},
		{name: "invalid argument", err: errors.Wrap(ErrInvalidArgument, "chainId"), want: true},
		{name: "upstream", err: &UpstreamError{Status: 400}, want: false},
		{name: "malformed", err: &MalformedResponseError{}, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsValidation(tt.err))
		})
	}
}

func TestNewUpstreamError(t *testing.T) {
	t.Parallel()

	t.Run("json body", func(t *testing.T) {
		t.Parallel()

		err := NewUpstreamError(400, []byte(`{"message":"no Route matched"}`))
		require.Equal(t, 400, err.Status)
		require.Equal(t, map[string]any{"message": "no Route matched"}, err.Body)
	})

	t.Run("text body", func(t *testing.T) {
		t.Parallel()

		err := NewUpstreamError(502, []byte("Bad Gateway"))
		require.Equal(t, "Bad Gateway", err.Body)
		require.Contains(t, err.Error(), "502")
	})
}

func TestMalformedResponseError(t *testing.T) {
	t.Parallel()

	var err error = &MalformedResponseError{
		Fields: []string{"to", "data"},
		Raw:    json.RawMessage(`{"transaction":{}}`),
	}

	require.ErrorIs(t, err, ErrMalformedUpstreamResponse)
	require.Equal(t, "malformed upstream response: missing or invalid to, data", err.Error())

	var target *MalformedResponseError
	require.True(t, errors.As(errors.Wrap(err, "s.BuildTransaction"), &target))
	require.JSONEq(t, `{"transaction":{}}`, string(target.Raw))
}
