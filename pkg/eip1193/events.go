package eip1193

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/evilrobotindustries/eth-wasm/pkg/chains"
	"github.com/evilrobotindustries/eth-wasm/pkg/constants"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

// Subscription is a listener registered on the provider
type Subscription struct {
	client *Client
	event  string
	id     types.ListenerID

	once sync.Once
	err  error
}

// Event returns the provider event name
func (s *Subscription) Event() string {
	return s.event
}

// ID returns the transport listener id
func (s *Subscription) ID() types.ListenerID {
	return s.id
}

// Unsubscribe removes the listener from the provider. It is safe to call more
// than once; later calls return the result of the first.
func (s *Subscription) Unsubscribe() error {
	s.once.Do(func() {
		s.err = s.client.unsubscribe(s)
	})
	return s.err
}

// OnConnect invokes f with the connected chain on every "connect" event
func (c *Client) OnConnect(f func(chains.Chain)) (*Subscription, error) {
	return c.subscribe(constants.EventConnect, func(payload json.RawMessage) error {
		var info types.ConnectInfo
		if err := c.decodeStruct(payload, &info); err != nil {
			return err
		}
		chain, err := ParseChainID(info.ChainID)
		if err != nil {
			return err
		}
		f(chain)
		return nil
	})
}

// OnAccountsChanged invokes f with the accounts reported by the provider
func (c *Client) OnAccountsChanged(f func([]string)) (*Subscription, error) {
	return c.subscribe(constants.EventAccountsChanged, func(payload json.RawMessage) error {
		var accounts []string
		if err := json.Unmarshal(payload, &accounts); err != nil {
			return newDecodeError(err)
		}
		if err := c.validate.Var(accounts, "dive,eth_addr"); err != nil {
			return newDecodeError(err)
		}
		f(accounts)
		return nil
	})
}

// OnChainChanged invokes f with the new chain
func (c *Client) OnChainChanged(f func(chains.Chain)) (*Subscription, error) {
	return c.subscribe(constants.EventChainChanged, func(payload json.RawMessage) error {
		var chainID string
		if err := json.Unmarshal(payload, &chainID); err != nil {
			return newDecodeError(err)
		}
		if err := c.validate.Var(chainID, "required,startswith=0x,hexadecimal"); err != nil {
			return newDecodeError(err)
		}
		chain, err := ParseChainID(chainID)
		if err != nil {
			return err
		}
		f(chain)
		return nil
	})
}

// OnDisconnect invokes f with the disconnect error as the provider sent it.
// The error is not classified: a disconnect is not a failed request.
func (c *Client) OnDisconnect(f func(types.RawError)) (*Subscription, error) {
	return c.subscribe(constants.EventDisconnect, func(payload json.RawMessage) error {
		var raw types.RawError
		if err := json.Unmarshal(payload, &raw); err != nil {
			return newDecodeError(err)
		}
		f(raw)
		return nil
	})
}

// OnMessage invokes f with every provider message
func (c *Client) OnMessage(f func(types.ProviderMessage)) (*Subscription, error) {
	return c.subscribe(constants.EventMessage, func(payload json.RawMessage) error {
		var msg types.ProviderMessage
		if err := c.decodeStruct(payload, &msg); err != nil {
			return err
		}
		f(msg)
		return nil
	})
}

func (c *Client) decodeStruct(payload json.RawMessage, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return newDecodeError(err)
	}
	if err := c.validate.Struct(out); err != nil {
		return newDecodeError(err)
	}
	return nil
}

// subscribe registers one listener for event. handle decodes the payload and
// invokes the caller's callback; its error goes to the event error handler.
func (c *Client) subscribe(event string, handle func(json.RawMessage) error) (*Subscription, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClientClosed
	}

	id, err := c.transport.On(event, func(payload json.RawMessage) {
		c.dispatch(event, payload, handle)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", event, err)
	}

	sub := &Subscription{client: c, event: event, id: id}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = c.transport.RemoveListener(event, id)
		return nil, ErrClientClosed
	}
	c.subs[id] = sub
	c.mu.Unlock()

	c.metrics.listenerAdded()
	c.logger.Debug("subscribed to provider event", "event", event, "listenerID", id)
	return sub, nil
}

func (c *Client) unsubscribe(sub *Subscription) error {
	c.mu.Lock()
	_, live := c.subs[sub.id]
	delete(c.subs, sub.id)
	c.mu.Unlock()

	if !live {
		return nil
	}
	c.metrics.listenerRemoved()

	if err := c.transport.RemoveListener(sub.event, sub.id); err != nil {
		return fmt.Errorf("failed to remove %s listener: %w", sub.event, err)
	}
	c.logger.Debug("unsubscribed from provider event", "event", sub.event, "listenerID", sub.id)
	return nil
}

func (c *Client) dispatch(event string, payload json.RawMessage, handle func(json.RawMessage) error) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)
		}
		c.metrics.observeEvent(event, err)
		if err != nil {
			c.reportEventError(&EventError{Event: event, Payload: payload, Err: err})
		}
	}()
	err = handle(payload)
}

func (c *Client) reportEventError(err *EventError) {
	if c.onEventError != nil {
		c.onEventError(err)
		return
	}
	c.logger.Warn("dropped provider event", "event", err.Event, "payload", string(err.Payload), "error", err.Err)
}
