package evm

import (
	"errors"
	"fmt"

	"github.com/evilrobotindustries/eth-wasm/pkg/eip1193"
)

// UnsupportedEventError is returned when subscribing to provider events over a
// node endpoint, which only answers requests
type UnsupportedEventError struct {
	Event string
}

func (e *UnsupportedEventError) Error() string {
	return fmt.Sprintf("events are not supported over node rpc: %s", e.Event)
}

func (e *UnsupportedEventError) Is(target error) bool {
	return errors.Is(target, eip1193.ErrEventsUnsupported)
}

// RPCError represents an RPC-related error
type RPCError struct {
	Endpoint string
	Err      error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error on %s: %v", e.Endpoint, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
