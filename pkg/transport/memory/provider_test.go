package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

func TestProvider_RequestResult(t *testing.T) {
	p := New()
	p.HandleResult("eth_chainId", "0x1")

	raw, err := p.Request(context.Background(), types.NewRequestArguments("eth_chainId"))
	require.NoError(t, err)
	assert.JSONEq(t, `"0x1"`, string(raw))

	requests := p.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "eth_chainId", requests[0].Method)
	assert.Empty(t, requests[0].Params)
}

func TestProvider_RequestRawResult(t *testing.T) {
	p := New()
	p.HandleResult("eth_getBalance", json.RawMessage(`0`))

	raw, err := p.Request(context.Background(), types.NewRequestArguments("eth_getBalance", "0xabc", "latest"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(raw))
	assert.Equal(t, []any{"0xabc", "latest"}, p.Requests()[0].Params)
}

func TestProvider_RequestRejections(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(p *Provider)
		expectedPayload string
	}{
		{
			name:            "unhandled method is unsupported",
			setup:           func(p *Provider) {},
			expectedPayload: `{"code":4200}`,
		},
		{
			name: "raw error",
			setup: func(p *Provider) {
				p.HandleError("eth_requestAccounts", types.RawError{Code: 4001})
			},
			expectedPayload: `{"code":4001}`,
		},
		{
			name: "raw rejection payload",
			setup: func(p *Provider) {
				p.Handle("eth_requestAccounts", func([]any) (any, error) {
					return nil, &types.Rejection{Payload: json.RawMessage(`"boom"`)}
				})
			},
			expectedPayload: `"boom"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			tt.setup(p)

			_, err := p.Request(context.Background(), types.NewRequestArguments("eth_requestAccounts"))
			var rejection *types.Rejection
			require.ErrorAs(t, err, &rejection)
			assert.JSONEq(t, tt.expectedPayload, string(rejection.Payload))
		})
	}
}

func TestProvider_TransportError(t *testing.T) {
	p := New()
	boom := errors.New("boom")
	p.Handle("eth_chainId", func([]any) (any, error) { return nil, boom })

	_, err := p.Request(context.Background(), types.NewRequestArguments("eth_chainId"))
	assert.ErrorIs(t, err, boom)
}

func TestProvider_CancelledContext(t *testing.T) {
	p := New()
	p.HandleResult("eth_chainId", "0x1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Request(ctx, types.NewRequestArguments("eth_chainId"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.Requests())
}

func TestProvider_Listeners(t *testing.T) {
	p := New()

	var order []string
	first, err := p.On("chainChanged", func(payload json.RawMessage) { order = append(order, "first:"+string(payload)) })
	require.NoError(t, err)
	_, err = p.On("chainChanged", func(payload json.RawMessage) { order = append(order, "second:"+string(payload)) })
	require.NoError(t, err)
	assert.Equal(t, 2, p.ListenerCount("chainChanged"))

	require.NoError(t, p.Emit("chainChanged", "0x5"))
	assert.Equal(t, []string{`first:"0x5"`, `second:"0x5"`}, order)

	require.NoError(t, p.RemoveListener("chainChanged", first))
	assert.Equal(t, 1, p.ListenerCount("chainChanged"))

	err = p.RemoveListener("chainChanged", first)
	assert.ErrorIs(t, err, ErrUnknownListener)

	order = nil
	p.EmitRaw("chainChanged", json.RawMessage(`"0x1"`))
	assert.Equal(t, []string{`second:"0x1"`}, order)
}

func TestProvider_NilListener(t *testing.T) {
	p := New()
	_, err := p.On("connect", nil)
	assert.Error(t, err)
}
