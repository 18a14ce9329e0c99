package eip1193_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evilrobotindustries/eth-wasm/pkg/eip1193"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

func ptr(s string) *string {
	return &s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name             string
		raw              types.RawError
		expectedKind     eip1193.Kind
		expectedSentinel error
		expectedMessage  string
	}{
		{
			name:             "user rejected without message",
			raw:              types.RawError{Code: 4001},
			expectedKind:     eip1193.KindUserRejectedRequest,
			expectedSentinel: eip1193.ErrUserRejectedRequest,
			expectedMessage:  "The user rejected the request.",
		},
		{
			name:             "user rejected keeps provider message",
			raw:              types.RawError{Code: 4001, Message: ptr("User denied account authorization")},
			expectedKind:     eip1193.KindUserRejectedRequest,
			expectedSentinel: eip1193.ErrUserRejectedRequest,
			expectedMessage:  "User denied account authorization",
		},
		{
			name:             "empty provider message is kept",
			raw:              types.RawError{Code: 4001, Message: ptr("")},
			expectedKind:     eip1193.KindUserRejectedRequest,
			expectedSentinel: eip1193.ErrUserRejectedRequest,
			expectedMessage:  "",
		},
		{
			name:             "unauthorised",
			raw:              types.RawError{Code: 4100},
			expectedKind:     eip1193.KindUnauthorised,
			expectedSentinel: eip1193.ErrUnauthorised,
			expectedMessage:  "The requested method and/or account has not been authorized by the user.",
		},
		{
			name:             "unsupported method",
			raw:              types.RawError{Code: 4200},
			expectedKind:     eip1193.KindUnsupportedMethod,
			expectedSentinel: eip1193.ErrUnsupportedMethod,
			expectedMessage:  "The Provider does not support the requested method.",
		},
		{
			name:             "disconnected",
			raw:              types.RawError{Code: 4900},
			expectedKind:     eip1193.KindDisconnected,
			expectedSentinel: eip1193.ErrDisconnected,
			expectedMessage:  "The Provider is disconnected from all chains.",
		},
		{
			name:             "chain disconnected",
			raw:              types.RawError{Code: 4901},
			expectedKind:     eip1193.KindChainDisconnected,
			expectedSentinel: eip1193.ErrChainDisconnected,
			expectedMessage:  "The Provider is not connected to the requested chain.",
		},
		{
			name:             "unknown code",
			raw:              types.RawError{Code: -32603, Message: ptr("Internal error")},
			expectedKind:     eip1193.KindProviderRPC,
			expectedSentinel: eip1193.ErrProviderRPC,
			expectedMessage:  "Internal error",
		},
		{
			name:             "unknown code without message",
			raw:              types.RawError{Code: 5000},
			expectedKind:     eip1193.KindProviderRPC,
			expectedSentinel: eip1193.ErrProviderRPC,
			expectedMessage:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := eip1193.Classify(tt.raw)
			require.NotNil(t, perr)
			assert.Equal(t, tt.expectedKind, perr.Kind)
			assert.Equal(t, tt.raw.Code, perr.Code)
			assert.Equal(t, tt.expectedMessage, perr.Message)
			assert.Equal(t, tt.raw, perr.Raw)
			assert.ErrorIs(t, perr, tt.expectedSentinel)
		})
	}
}

func TestClassify_KindsDoNotOverlap(t *testing.T) {
	perr := eip1193.Classify(types.RawError{Code: 4001})
	assert.NotErrorIs(t, perr, eip1193.ErrUnauthorised)
	assert.NotErrorIs(t, perr, eip1193.ErrProviderRPC)
	assert.NotErrorIs(t, perr, eip1193.ErrDeserialisation)
}

func TestClassify_GenericKeepsFields(t *testing.T) {
	raw := types.RawError{
		Code:    -32000,
		Message: ptr("execution reverted"),
		Data:    json.RawMessage(`{"reason":"nope"}`),
		Stack:   json.RawMessage(`"at foo"`),
	}

	perr := eip1193.Classify(raw)
	assert.Equal(t, eip1193.KindProviderRPC, perr.Kind)
	assert.JSONEq(t, `{"reason":"nope"}`, string(perr.Data))
	assert.JSONEq(t, `"at foo"`, string(perr.Stack))
	assert.Equal(t, `a provider rpc error has occurred: -32000 "execution reverted"`, perr.Error())
}

func TestProviderError_Error(t *testing.T) {
	perr := eip1193.Classify(types.RawError{Code: 4900})
	assert.Equal(t, "The Provider is disconnected from all chains.", perr.Error())

	perr = eip1193.Classify(types.RawError{Code: 7})
	assert.Equal(t, "a provider rpc error has occurred: 7", perr.Error())
}

func TestDecodeError(t *testing.T) {
	cause := errors.New("unexpected token")
	err := &eip1193.DecodeError{Detail: "unexpected token", Err: cause}

	assert.Equal(t, "a deserialisation error has occurred: unexpected token", err.Error())
	assert.ErrorIs(t, err, eip1193.ErrDeserialisation)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, eip1193.ErrProviderRPC)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "user_rejected_request", eip1193.KindUserRejectedRequest.String())
	assert.Equal(t, "chain_disconnected", eip1193.KindChainDisconnected.String())
	assert.Equal(t, "provider_rpc", eip1193.KindProviderRPC.String())
}
