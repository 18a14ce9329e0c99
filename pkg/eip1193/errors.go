package eip1193

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/evilrobotindustries/eth-wasm/pkg/constants"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

var (
	ErrUserRejectedRequest = errors.New("user rejected request")
	ErrUnauthorised        = errors.New("unauthorised")
	ErrUnsupportedMethod   = errors.New("unsupported method")
	ErrDisconnected        = errors.New("disconnected")
	ErrChainDisconnected   = errors.New("chain disconnected")
	ErrProviderRPC         = errors.New("provider rpc error")
	ErrDeserialisation     = errors.New("deserialisation error")

	// ErrMalformedProviderError is wrapped by the DecodeError returned when a
	// rejection payload is not a valid provider error object
	ErrMalformedProviderError = errors.New("malformed provider error")
	ErrEventsUnsupported      = errors.New("transport does not support events")
	ErrCallbackPanic          = errors.New("event callback panicked")
	ErrClientClosed           = errors.New("client closed")
	ErrNilTransport           = errors.New("transport is nil")
)

// Kind classifies a provider error
type Kind int

const (
	KindProviderRPC Kind = iota
	KindUserRejectedRequest
	KindUnauthorised
	KindUnsupportedMethod
	KindDisconnected
	KindChainDisconnected
)

func (k Kind) String() string {
	switch k {
	case KindUserRejectedRequest:
		return "user_rejected_request"
	case KindUnauthorised:
		return "unauthorised"
	case KindUnsupportedMethod:
		return "unsupported_method"
	case KindDisconnected:
		return "disconnected"
	case KindChainDisconnected:
		return "chain_disconnected"
	default:
		return "provider_rpc"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUserRejectedRequest:
		return ErrUserRejectedRequest
	case KindUnauthorised:
		return ErrUnauthorised
	case KindUnsupportedMethod:
		return ErrUnsupportedMethod
	case KindDisconnected:
		return ErrDisconnected
	case KindChainDisconnected:
		return ErrChainDisconnected
	default:
		return ErrProviderRPC
	}
}

// ProviderError is a classified provider failure
type ProviderError struct {
	Kind Kind
	Code int64
	// Message is the provider message, or the standard message for the code
	// when the provider sent none. Empty for an unclassified code without one.
	Message string
	Data    json.RawMessage
	Stack   json.RawMessage
	// Raw is the error exactly as the provider reported it
	Raw types.RawError
}

func (e *ProviderError) Error() string {
	if e.Kind == KindProviderRPC {
		if e.Raw.Message != nil {
			return fmt.Sprintf("a provider rpc error has occurred: %d %q", e.Code, *e.Raw.Message)
		}
		return fmt.Sprintf("a provider rpc error has occurred: %d", e.Code)
	}
	return e.Message
}

// Is matches the sentinel of the error kind
func (e *ProviderError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// DecodeError is returned when a provider response or event payload does not
// have the expected shape
type DecodeError struct {
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("a deserialisation error has occurred: %s", e.Detail)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDeserialisation
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(err error) *DecodeError {
	return &DecodeError{Detail: err.Error(), Err: err}
}

// EventError reports an event payload that could not be delivered
type EventError struct {
	Event   string
	Payload json.RawMessage
	Err     error
}

func (e *EventError) Error() string {
	return fmt.Sprintf("%s event: %v", e.Event, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

type classification struct {
	kind           Kind
	defaultMessage string
}

var classifications = map[int64]classification{
	constants.CodeUserRejectedRequest: {KindUserRejectedRequest, constants.MessageUserRejectedRequest},
	constants.CodeUnauthorised:        {KindUnauthorised, constants.MessageUnauthorised},
	constants.CodeUnsupportedMethod:   {KindUnsupportedMethod, constants.MessageUnsupportedMethod},
	constants.CodeDisconnected:        {KindDisconnected, constants.MessageDisconnected},
	constants.CodeChainDisconnected:   {KindChainDisconnected, constants.MessageChainDisconnected},
}

// Classify maps a raw provider error to a ProviderError. Every code is
// accepted; codes without a standard meaning are KindProviderRPC.
func Classify(raw types.RawError) *ProviderError {
	perr := &ProviderError{
		Kind:  KindProviderRPC,
		Code:  raw.Code,
		Data:  raw.Data,
		Stack: raw.Stack,
		Raw:   raw,
	}
	if raw.Message != nil {
		perr.Message = *raw.Message
	}

	c, ok := classifications[raw.Code]
	if !ok {
		return perr
	}
	perr.Kind = c.kind
	if raw.Message == nil {
		perr.Message = c.defaultMessage
	}
	return perr
}

// classifyRejection decodes a rejection payload and classifies it
func classifyRejection(rejection *types.Rejection) error {
	var raw types.RawError
	if err := json.Unmarshal(rejection.Payload, &raw); err != nil {
		return malformedProviderError(err)
	}

	// code is the one mandatory field
	var probe struct {
		Code *int64 `json:"code"`
	}
	if err := json.Unmarshal(rejection.Payload, &probe); err != nil || probe.Code == nil {
		return malformedProviderError(errors.New("missing error code"))
	}
	return Classify(raw)
}

func malformedProviderError(err error) *DecodeError {
	return &DecodeError{
		Detail: fmt.Sprintf("%v: %v", ErrMalformedProviderError, err),
		Err:    fmt.Errorf("%w: %w", ErrMalformedProviderError, err),
	}
}
