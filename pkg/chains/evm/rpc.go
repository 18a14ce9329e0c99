// Package evm adapts an Ethereum node JSON-RPC endpoint to the provider
// transport interface. Node endpoints answer requests but never push provider
// events, so subscriptions fail with ErrEventsUnsupported.
package evm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/evilrobotindustries/eth-wasm/pkg/constants"
	"github.com/evilrobotindustries/eth-wasm/pkg/eip1193"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

// RPCTransport implements eip1193.Transport over a go-ethereum rpc.Client
type RPCTransport struct {
	endpoint string
	client   *rpc.Client
}

// Verify RPCTransport implements the transport interface
var _ eip1193.Transport = (*RPCTransport)(nil)

// DialRPCTransport connects to a node endpoint (http, ws or ipc)
func DialRPCTransport(ctx context.Context, endpoint string) (*RPCTransport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RPCDialTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, &RPCError{Endpoint: endpoint, Err: err}
	}
	return &RPCTransport{endpoint: endpoint, client: client}, nil
}

// NewRPCTransport wraps an existing client. The endpoint is only used in errors.
func NewRPCTransport(endpoint string, client *rpc.Client) *RPCTransport {
	return &RPCTransport{endpoint: endpoint, client: client}
}

// Request implements eip1193.Transport.
// JSON-RPC error responses are returned as *types.Rejection so the client
// classifies them like wallet errors.
func (r *RPCTransport) Request(ctx context.Context, args types.RequestArguments) (json.RawMessage, error) {
	var raw json.RawMessage
	err := r.client.CallContext(ctx, &raw, args.Method, args.Params...)
	if err == nil {
		return raw, nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		payload, merr := json.Marshal(rawErrorFrom(rpcErr))
		if merr != nil {
			return nil, fmt.Errorf("failed to marshal rpc error: %w", merr)
		}
		return nil, &types.Rejection{Payload: payload}
	}
	return nil, &RPCError{Endpoint: r.endpoint, Err: err}
}

// On implements eip1193.Transport
func (r *RPCTransport) On(event string, _ types.Listener) (types.ListenerID, error) {
	return types.ListenerID{}, &UnsupportedEventError{Event: event}
}

// RemoveListener implements eip1193.Transport
func (r *RPCTransport) RemoveListener(event string, _ types.ListenerID) error {
	return &UnsupportedEventError{Event: event}
}

// Close closes the underlying client
func (r *RPCTransport) Close() {
	r.client.Close()
}

// rawErrorFrom converts a JSON-RPC error response to the provider error shape
func rawErrorFrom(err rpc.Error) types.RawError {
	raw := types.RawError{Code: int64(err.ErrorCode())}

	// go-ethereum substitutes a placeholder when the node sent no message
	if msg := err.Error(); msg != fmt.Sprintf("json-rpc error %d", err.ErrorCode()) {
		raw.Message = &msg
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		if data, merr := json.Marshal(dataErr.ErrorData()); merr == nil {
			raw.Data = data
		}
	}
	return raw
}
