// Package wsbridge implements a provider transport over a websocket bridge.
//
// The other end of the bridge is a host page that owns the injected provider
// object. Requests are sent as {"id":N,"method":...,"params":[...]} frames and
// answered with {"id":N,"result":...} or {"id":N,"error":{...}}. Provider
// events are pushed as {"event":"chainChanged","data":...}.
package wsbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/evilrobotindustries/eth-wasm/pkg/eip1193"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
	"github.com/evilrobotindustries/eth-wasm/pkg/utils"
)

type requestFrame struct {
	ID uint64 `json:"id"`
	types.RequestArguments
}

// incomingFrame is either a response (ID set) or an event (Event set)
type incomingFrame struct {
	ID     *uint64         `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type listenerEntry struct {
	id       types.ListenerID
	listener types.Listener
}

// Bridge is a provider transport backed by a websocket connection.
// It is safe for concurrent use.
type Bridge struct {
	cfg    Config
	conn   *websocket.Conn
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	nextID atomic.Uint64

	mu        sync.Mutex // protects pending, listeners, closed and err
	pending   map[uint64]chan incomingFrame
	listeners map[string][]listenerEntry
	closed    bool
	err       error

	writeMu   sync.Mutex // serializes frame writes
	events    chan incomingFrame
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the bridge at url. The context bounds the handshake only;
// the connection lives until Close is called or the host goes away.
//
// Example:
//
//	bridge, err := wsbridge.Dial(ctx, "wss://wallet.example.com/bridge", wsbridge.DefaultConfig, logger)
//	if err != nil {
//	    return err
//	}
//	defer bridge.Close()
//	client, err := eip1193.NewClient(bridge)
func Dial(ctx context.Context, url string, cfg Config, logger *slog.Logger) (*Bridge, error) {
	if err := utils.ValidateBridgeURL(url); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  cfg.HandshakeTimeout,
		EnableCompression: true,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialingWebsocket, err)
	}
	if cfg.MaxFrameSize > 0 {
		conn.SetReadLimit(cfg.MaxFrameSize)
	}

	b := newBridge(conn, cfg, logger.With("component", "wsbridge", "url", url))
	go b.readMessages()
	go b.dispatchEvents()
	if cfg.PingInterval > 0 {
		go b.pingPeriodically()
	}

	b.logger.Debug("bridge connected")
	return b, nil
}

func newBridge(conn *websocket.Conn, cfg Config, logger *slog.Logger) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		cfg:       cfg,
		conn:      conn,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[uint64]chan incomingFrame),
		listeners: make(map[string][]listenerEntry),
		events:    make(chan incomingFrame, max(cfg.EventBufferSize, 0)),
		done:      make(chan struct{}),
	}
}

// Request implements eip1193.Transport.
// A non-null error object from the host is returned as a *types.Rejection.
func (b *Bridge) Request(ctx context.Context, args types.RequestArguments) (json.RawMessage, error) {
	id := b.nextID.Add(1)
	sink := make(chan incomingFrame, 1) // buffered so the read loop never blocks

	b.mu.Lock()
	if b.closed {
		err := b.closedErrLocked()
		b.mu.Unlock()
		return nil, err
	}
	b.pending[id] = sink
	b.mu.Unlock()
	defer b.forget(id)

	payload, err := json.Marshal(requestFrame{ID: id, RequestArguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := b.write(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendingRequest, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case frame, ok := <-sink:
		if !ok {
			b.mu.Lock()
			defer b.mu.Unlock()
			return nil, b.closedErrLocked()
		}
		if !isNull(frame.Error) {
			return nil, &types.Rejection{Payload: frame.Error}
		}
		if len(bytes.TrimSpace(frame.Result)) == 0 {
			return nil, &eip1193.DecodeError{
				Detail: fmt.Sprintf("%v for request %d", ErrMissingResult, id),
				Err:    ErrMissingResult,
			}
		}
		return frame.Result, nil
	}
}

// On implements eip1193.Transport
func (b *Bridge) On(event string, listener types.Listener) (types.ListenerID, error) {
	if listener == nil {
		return types.ListenerID{}, fmt.Errorf("listener for %s is nil", event)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return types.ListenerID{}, b.closedErrLocked()
	}
	id := types.NewListenerID()
	b.listeners[event] = append(b.listeners[event], listenerEntry{id: id, listener: listener})
	return id, nil
}

// RemoveListener implements eip1193.Transport
func (b *Bridge) RemoveListener(event string, id types.ListenerID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.listeners[event]
	idx := slices.IndexFunc(entries, func(e listenerEntry) bool { return e.id == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s %s", ErrUnknownListener, event, id)
	}
	b.listeners[event] = slices.Delete(entries, idx, idx+1)
	return nil
}

// Close closes the connection and fails every pending request
func (b *Bridge) Close() error {
	// stop the read loop from treating the close handshake as a failure
	b.cancel()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = b.conn.WriteControl(websocket.CloseMessage, msg, b.writeDeadline())
	b.shutdown(ErrClosed)
	return nil
}

// Done is closed once the bridge has shut down
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Err returns the reason the bridge shut down, or nil while it is open
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.err
}

func (b *Bridge) shutdown(cause error) {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.err = cause
		pending := b.pending
		b.pending = make(map[uint64]chan incomingFrame)
		for _, sink := range pending {
			close(sink)
		}
		b.mu.Unlock()

		b.cancel()
		_ = b.conn.Close()
		close(b.done)

		if errors.Is(cause, ErrClosed) {
			b.logger.Debug("bridge closed")
		} else {
			b.logger.Warn("bridge connection lost", "error", cause)
		}
	})
}

func (b *Bridge) closedErrLocked() error {
	if b.err == nil || errors.Is(b.err, ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("%w: %w", ErrClosed, b.err)
}

func (b *Bridge) forget(id uint64) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

func (b *Bridge) write(payload []byte) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := b.conn.SetWriteDeadline(b.writeDeadline()); err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, payload)
}

// readMessages reads frames until the connection fails, routing responses to
// their pending request and queueing events for dispatch
func (b *Bridge) readMessages() {
	for {
		_, data, err := b.conn.ReadMessage()
		if b.ctx.Err() != nil {
			return
		}
		if err != nil {
			b.shutdown(fmt.Errorf("%w: %w", ErrReadingMessage, err))
			return
		}

		var frame incomingFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			b.logger.Warn("malformed bridge frame", "frame", string(data), "error", err)
			continue
		}

		switch {
		case frame.ID != nil:
			b.resolve(frame)
		case frame.Event != "":
			select {
			case b.events <- frame:
			case <-b.ctx.Done():
				return
			}
		default:
			b.logger.Warn("bridge frame is neither a response nor an event", "frame", string(data))
		}
	}
}

func (b *Bridge) resolve(frame incomingFrame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sink, exists := b.pending[*frame.ID]
	if !exists {
		b.logger.Warn("response for unknown request", "requestID", *frame.ID)
		return
	}
	delete(b.pending, *frame.ID)
	sink <- frame
}

// dispatchEvents delivers queued events to listeners one at a time, in the
// order they were received
func (b *Bridge) dispatchEvents() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case frame := <-b.events:
			b.emit(frame.Event, frame.Data)
		}
	}
}

func (b *Bridge) emit(event string, payload json.RawMessage) {
	b.mu.Lock()
	entries := slices.Clone(b.listeners[event])
	b.mu.Unlock()

	if len(entries) == 0 {
		b.logger.Debug("no listeners for event", "event", event)
		return
	}
	for _, e := range entries {
		e.listener(payload)
	}
}

func (b *Bridge) pingPeriodically() {
	ticker := time.NewTicker(b.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			return
		case <-ticker.C:
			if err := b.conn.WriteControl(websocket.PingMessage, nil, b.writeDeadline()); err != nil {
				b.shutdown(fmt.Errorf("%w: %w", ErrSendingPing, err))
				return
			}
		}
	}
}

// writeDeadline returns the zero time, meaning no deadline, when writes are unbounded
func (b *Bridge) writeDeadline() time.Time {
	if b.cfg.WriteTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(b.cfg.WriteTimeout)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
