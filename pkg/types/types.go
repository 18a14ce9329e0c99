package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RequestArguments is the argument object passed to the provider's request method
type RequestArguments struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// NewRequestArguments builds request arguments, keeping params a non-nil array
// so it is always sent as `[]` on the wire
func NewRequestArguments(method string, params ...any) RequestArguments {
	if params == nil {
		params = []any{}
	}
	return RequestArguments{Method: method, Params: params}
}

// RawError is the wire shape of a failed request or of a disconnect event payload
type RawError struct {
	Code    int64           `json:"code"`
	Message *string         `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Stack   json.RawMessage `json:"stack,omitempty"`
}

// Error implements the error interface
func (e *RawError) Error() string {
	if e.Message != nil {
		return fmt.Sprintf("provider error %d: %s", e.Code, *e.Message)
	}
	return fmt.Sprintf("provider error %d", e.Code)
}

// Rejection is returned by a transport when the provider rejected a request.
// Payload holds the undecoded error object exactly as the provider sent it.
type Rejection struct {
	Payload json.RawMessage
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("provider rejected request: %s", string(r.Payload))
}

// ConnectInfo is the payload of a "connect" event
type ConnectInfo struct {
	ChainID string `json:"chainId" validate:"required,hexadecimal"`
}

// ProviderMessage is the payload of a "message" event
type ProviderMessage struct {
	Type string          `json:"type" validate:"required"`
	Data json.RawMessage `json:"data"`
}

// Listener receives a raw event payload from a transport
type Listener func(payload json.RawMessage)

// ListenerID identifies a registered listener so it can be removed later
type ListenerID = uuid.UUID

// NewListenerID returns a fresh random listener id
func NewListenerID() ListenerID {
	return uuid.New()
}
