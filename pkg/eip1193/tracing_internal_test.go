package eip1193

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"

	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

func Test_requestSpanAttributes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		err            error
		expectedOutput []attribute.KeyValue
	}{
		{
			name:   "success",
			method: "eth_chainId",
			expectedOutput: []attribute.KeyValue{
				attribute.String("rpc.system", "eip1193"),
				attribute.String("rpc.method", "eth_chainId"),
				attribute.String("eip1193.outcome", "ok"),
			},
		},
		{
			name:   "provider error carries the code",
			method: "eth_requestAccounts",
			err:    Classify(types.RawError{Code: 4001}),
			expectedOutput: []attribute.KeyValue{
				attribute.String("rpc.system", "eip1193"),
				attribute.String("rpc.method", "eth_requestAccounts"),
				attribute.String("eip1193.outcome", "user_rejected_request"),
				attribute.Int64("eip1193.error_code", 4001),
			},
		},
		{
			name:   "decode error",
			method: "eth_getBalance",
			err:    newDecodeError(errors.New("bad")),
			expectedOutput: []attribute.KeyValue{
				attribute.String("rpc.system", "eip1193"),
				attribute.String("rpc.method", "eth_getBalance"),
				attribute.String("eip1193.outcome", "deserialisation"),
			},
		},
		{
			name:   "transport error",
			method: "eth_chainId",
			err:    errors.New("connection reset"),
			expectedOutput: []attribute.KeyValue{
				attribute.String("rpc.system", "eip1193"),
				attribute.String("rpc.method", "eth_chainId"),
				attribute.String("eip1193.outcome", "transport"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedOutput, requestSpanAttributes(tt.method, tt.err))
		})
	}
}

func Test_outcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "provider_rpc", outcome(Classify(types.RawError{Code: -32000})))
	assert.Equal(t, "panic", outcome(ErrCallbackPanic))
	assert.Equal(t, "deserialisation", outcome(malformedProviderError(errors.New("x"))))
	assert.Equal(t, "transport", outcome(ErrClientClosed))
}
