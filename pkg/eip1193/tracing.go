package eip1193

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/evilrobotindustries/eth-wasm/pkg/eip1193"

// WithTracerProvider sets the provider of the tracer used for request spans
// (default: the global otel provider)
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// requestSpanAttributes returns the attributes recorded on a finished request span
func requestSpanAttributes(method string, err error) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("rpc.system", "eip1193"),
		attribute.String("rpc.method", method),
		attribute.String("eip1193.outcome", outcome(err)),
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		attrs = append(attrs, attribute.Int64("eip1193.error_code", perr.Code))
	}
	return attrs
}
