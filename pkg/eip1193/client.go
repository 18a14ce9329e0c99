package eip1193

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/evilrobotindustries/eth-wasm/pkg/chains"
	"github.com/evilrobotindustries/eth-wasm/pkg/constants"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
	"github.com/evilrobotindustries/eth-wasm/pkg/utils"
)

// Client is a typed client over an injected provider.
// It owns the transport for its lifetime and is safe for concurrent use.
type Client struct {
	transport    Transport
	logger       *slog.Logger
	metrics      *Metrics
	tracer       trace.Tracer
	registry     *chains.Registry
	validate     *validator.Validate
	onEventError func(error)

	mu     sync.Mutex
	subs   map[types.ListenerID]*Subscription
	closed bool
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client logger (default slog.Default())
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics
func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithRegistry sets the registry used to describe chains in logs
// (default chains.DefaultRegistry())
func WithRegistry(registry *chains.Registry) Option {
	return func(c *Client) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithEventErrorHandler sets the handler receiving an *EventError for every
// event payload that could not be delivered. By default such events are
// logged and dropped.
func WithEventErrorHandler(handler func(error)) Option {
	return func(c *Client) {
		c.onEventError = handler
	}
}

// NewClient creates a client over the given transport.
// It registers a diagnostic listener that logs provider messages at debug
// level; transports without event support are accepted.
func NewClient(transport Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}

	c := &Client{
		transport: transport,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		registry:  chains.DefaultRegistry(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		subs:      make(map[types.ListenerID]*Subscription),
	}
	for _, opt := range opts {
		opt(c)
	}

	_, err := c.OnMessage(func(msg types.ProviderMessage) {
		c.logger.Debug("provider message", "type", msg.Type, "data", string(msg.Data))
	})
	switch {
	case errors.Is(err, ErrEventsUnsupported):
		c.logger.Debug("transport does not support events, provider messages will not be logged")
	case err != nil:
		return nil, err
	}

	return c, nil
}

// RequestAccounts asks the provider for the user's accounts (eth_requestAccounts)
func (c *Client) RequestAccounts(ctx context.Context) ([]string, error) {
	return request[[]string](ctx, c, constants.MethodRequestAccounts)
}

// BalanceWei returns the balance of address in wei at the latest block
func (c *Client) BalanceWei(ctx context.Context, address string) (*uint256.Int, error) {
	balance, err := request[Quantity](ctx, c, constants.MethodGetBalance, address, constants.BlockLatest)
	if err != nil {
		return nil, err
	}
	return balance.Int(), nil
}

// Balance returns the balance of address in units of the native token.
// The conversion is lossy for large balances; use BalanceDecimal for exact values.
func (c *Client) Balance(ctx context.Context, address string) (float64, error) {
	wei, err := c.BalanceWei(ctx, address)
	if err != nil {
		return 0, err
	}
	return utils.WeiToFloat(wei), nil
}

// BalanceDecimal returns the exact balance of address in units of the native token
func (c *Client) BalanceDecimal(ctx context.Context, address string) (decimal.Decimal, error) {
	wei, err := c.BalanceWei(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return utils.WeiToDecimal(wei), nil
}

// Chain returns the chain the provider is connected to (eth_chainId)
func (c *Client) Chain(ctx context.Context) (chains.Chain, error) {
	id, err := request[Quantity](ctx, c, constants.MethodChainID)
	if err != nil {
		return 0, err
	}
	chain, err := chainFromQuantity(id.Int())
	if err != nil {
		return 0, err
	}
	c.logger.Debug("provider chain", "chainID", chain.ID(), "name", c.registry.Describe(chain).Name)
	return chain, nil
}

// Describe returns display metadata for a chain from the client's registry
func (c *Client) Describe(chain chains.Chain) chains.ChainInfo {
	return c.registry.Describe(chain)
}

// Close removes every listener the client registered. The transport itself
// is not closed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	subs := make([]*Subscription, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// request runs Request with logging, metrics and a client span
func request[T any](ctx context.Context, c *Client, method string, params ...any) (T, error) {
	ctx, span := c.tracer.Start(ctx, method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	started := time.Now()
	c.logger.Debug("provider request", "method", method)

	out, err := Request[T](ctx, c.transport, method, params...)
	c.metrics.observeRequest(method, started, err)
	span.SetAttributes(requestSpanAttributes(method, err)...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
		c.logger.Warn("provider request failed", "method", method, "error", err)
	}
	return out, err
}
