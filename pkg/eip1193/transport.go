package eip1193

import (
	"context"
	"encoding/json"

	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

// Transport is the capability surface of an injected provider
type Transport interface {
	// Request sends a request to the provider and returns the raw result.
	// When the provider rejects the request the error is a *types.Rejection
	// carrying the undecoded error object.
	Request(ctx context.Context, args types.RequestArguments) (json.RawMessage, error)

	// On registers a listener for a named provider event
	On(event string, listener types.Listener) (types.ListenerID, error)

	// RemoveListener removes a listener registered with On
	RemoveListener(event string, id types.ListenerID) error
}
