package wsbridge

import "errors"

var (
	// ErrInvalidURL is returned by Dial when the bridge URL is rejected
	ErrInvalidURL = errors.New("invalid bridge url")
	// ErrDialingWebsocket is returned by Dial when the handshake fails
	ErrDialingWebsocket = errors.New("failed to dial bridge websocket")
	// ErrClosed is returned by operations on a closed bridge
	ErrClosed = errors.New("bridge closed")
	// ErrSendingRequest is returned when a request frame cannot be written
	ErrSendingRequest = errors.New("failed to send request")
	// ErrReadingMessage is the closure cause when the read loop fails
	ErrReadingMessage = errors.New("failed to read message")
	// ErrSendingPing is the closure cause when a keepalive ping fails
	ErrSendingPing = errors.New("failed to send ping")
	// ErrMissingResult is returned when a response frame carries neither a result nor an error
	ErrMissingResult = errors.New("response has neither result nor error")
	// ErrUnknownListener is returned when removing a listener that is not registered
	ErrUnknownListener = errors.New("unknown listener")
)
