package eip1193

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/holiman/uint256"

	"github.com/evilrobotindustries/eth-wasm/pkg/chains"
	"github.com/evilrobotindustries/eth-wasm/pkg/types"
)

// Request sends a request through the transport and decodes the result into T.
//
// The raw result goes through NormalizeNumeric before decoding. A provider
// rejection is returned as a classified *ProviderError; a result that does not
// decode into T is returned as a *DecodeError. Other transport failures are
// returned wrapped.
func Request[T any](ctx context.Context, transport Transport, method string, params ...any) (T, error) {
	var zero T

	args := types.NewRequestArguments(method, params...)
	raw, err := transport.Request(ctx, args)
	if err != nil {
		var rejection *types.Rejection
		if errors.As(err, &rejection) {
			return zero, classifyRejection(rejection)
		}
		return zero, fmt.Errorf("%s request failed: %w", method, err)
	}

	normalized, err := NormalizeNumeric(raw)
	if err != nil {
		return zero, newDecodeError(err)
	}

	var out T
	if err := json.Unmarshal(normalized, &out); err != nil {
		return zero, newDecodeError(err)
	}
	return out, nil
}

// NormalizeNumeric rewrites a bare JSON number as its decimal string.
// Providers return some quantities (zero balances in particular) as numbers
// while all others arrive as hex strings; integer decoding downstream expects a
// string in both cases. Any other value is returned unchanged.
func NormalizeNumeric(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid provider response: %w", err)
	}

	number, ok := value.(json.Number)
	if !ok {
		return trimmed, nil
	}
	return json.Marshal(number.String())
}

// ParseChainID parses a hex chain id. The 0x prefix is optional and leading
// zero digits are accepted, so "0x89", "89" and "0x0089" all identify chain 137.
func ParseChainID(s string) (chains.Chain, error) {
	q, err := parseHexQuantity(s)
	if err != nil {
		return 0, &DecodeError{Detail: fmt.Sprintf("invalid chain id %q: %v", s, err), Err: err}
	}
	return chainFromQuantity(q)
}

// Quantity is an unsigned integer result. It decodes from a 0x-prefixed hex
// string (zero padding allowed) or from the decimal string NormalizeNumeric
// produces for bare numbers.
type Quantity uint256.Int

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch {
	case s == "":
		return errors.New("empty quantity")
	case has0xPrefix(s):
		v, err := parseHexQuantity(s)
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", s, err)
		}
		*q = Quantity(*v)
	default:
		var v uint256.Int
		if err := v.SetFromDecimal(s); err != nil {
			return fmt.Errorf("invalid quantity %q: %w", s, err)
		}
		*q = Quantity(v)
	}
	return nil
}

// Int returns the quantity as a uint256.Int
func (q *Quantity) Int() *uint256.Int {
	v := uint256.Int(*q)
	return &v
}

// parseHexQuantity parses hex digits with an optional 0x prefix
func parseHexQuantity(s string) (*uint256.Int, error) {
	digits := s
	if has0xPrefix(s) {
		digits = s[2:]
	}
	if digits == "" {
		return nil, errors.New("no hex digits")
	}

	// the uint256 parser rejects zero padding
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}

	var q uint256.Int
	if err := q.SetFromHex("0x" + digits); err != nil {
		return nil, err
	}
	return &q, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// chainFromQuantity narrows a chain id quantity to the 32-bit id space.
// Ids that do not fit are rejected rather than truncated.
func chainFromQuantity(q *uint256.Int) (chains.Chain, error) {
	if q.BitLen() > 128 {
		return 0, &DecodeError{Detail: fmt.Sprintf("chain id %s exceeds 128 bits", q.Dec())}
	}
	if !q.IsUint64() || q.Uint64() > math.MaxUint32 {
		return 0, &DecodeError{Detail: fmt.Sprintf("chain id %s exceeds 32 bits", q.Dec())}
	}
	return chains.Identify(uint32(q.Uint64())), nil
}
