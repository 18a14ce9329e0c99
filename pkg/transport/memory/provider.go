// Package memory provides an in-process provider for tests and local
// development. Requests are answered by registered handlers and events are
// emitted synchronously to registered listeners.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

var ErrUnknownListener = errors.New("unknown listener")

// unsupportedMethod is the rejection sent for methods without a handler
var unsupportedMethod = json.RawMessage(`{"code":4200}`)

// Handler answers a request. Returning a *types.RawError rejects the request
// with that error; returning a *types.Rejection rejects it with the raw
// payload; any other error is returned as a transport failure.
type Handler func(params []any) (any, error)

type listenerEntry struct {
	id       types.ListenerID
	listener types.Listener
}

// Provider is an in-memory provider
type Provider struct {
	mu        sync.RWMutex
	handlers  map[string]Handler
	listeners map[string][]listenerEntry
	requests  []types.RequestArguments
}

// New creates an empty provider
func New() *Provider {
	return &Provider{
		handlers:  make(map[string]Handler),
		listeners: make(map[string][]listenerEntry),
	}
}

// Handle registers a handler for a method, replacing any previous one
func (p *Provider) Handle(method string, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlers[method] = handler
}

// HandleResult answers every request for method with result.
// A json.RawMessage result is sent verbatim.
func (p *Provider) HandleResult(method string, result any) {
	p.Handle(method, func([]any) (any, error) {
		return result, nil
	})
}

// HandleError rejects every request for method with raw
func (p *Provider) HandleError(method string, raw types.RawError) {
	p.Handle(method, func([]any) (any, error) {
		return nil, &raw
	})
}

// Request implements eip1193.Transport
func (p *Provider) Request(ctx context.Context, args types.RequestArguments) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// round-trip the arguments so handlers see what a real provider would
	wire, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request arguments: %w", err)
	}
	var received types.RequestArguments
	if err := json.Unmarshal(wire, &received); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request arguments: %w", err)
	}

	p.mu.Lock()
	p.requests = append(p.requests, received)
	handler, exists := p.handlers[received.Method]
	p.mu.Unlock()

	if !exists {
		return nil, &types.Rejection{Payload: unsupportedMethod}
	}

	result, err := handler(received.Params)
	if err != nil {
		var raw *types.RawError
		var rejection *types.Rejection
		switch {
		case errors.As(err, &raw):
			payload, merr := json.Marshal(raw)
			if merr != nil {
				return nil, fmt.Errorf("failed to marshal provider error: %w", merr)
			}
			return nil, &types.Rejection{Payload: payload}
		case errors.As(err, &rejection):
			return nil, rejection
		default:
			return nil, err
		}
	}

	return json.Marshal(result)
}

// On implements eip1193.Transport
func (p *Provider) On(event string, listener types.Listener) (types.ListenerID, error) {
	if listener == nil {
		return types.ListenerID{}, fmt.Errorf("listener for %s is nil", event)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := types.NewListenerID()
	p.listeners[event] = append(p.listeners[event], listenerEntry{id: id, listener: listener})
	return id, nil
}

// RemoveListener implements eip1193.Transport
func (p *Provider) RemoveListener(event string, id types.ListenerID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.listeners[event]
	idx := slices.IndexFunc(entries, func(e listenerEntry) bool { return e.id == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s %s", ErrUnknownListener, event, id)
	}
	p.listeners[event] = slices.Delete(entries, idx, idx+1)
	return nil
}

// Emit marshals payload and delivers it to every listener of event, in
// registration order
func (p *Provider) Emit(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	p.EmitRaw(event, raw)
	return nil
}

// EmitRaw delivers a raw payload to every listener of event
func (p *Provider) EmitRaw(event string, payload json.RawMessage) {
	p.mu.RLock()
	entries := slices.Clone(p.listeners[event])
	p.mu.RUnlock()

	for _, e := range entries {
		e.listener(payload)
	}
}

// ListenerCount returns the number of listeners registered for event
func (p *Provider) ListenerCount(event string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.listeners[event])
}

// Requests returns the requests received so far, as the provider saw them
func (p *Provider) Requests() []types.RequestArguments {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Clone(p.requests)
}
