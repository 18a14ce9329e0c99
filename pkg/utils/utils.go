package utils

import (
	"fmt"
	"net/url"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/evilrobotindustries/eth-wasm/pkg/constants"
)

// WeiToDecimal converts a wei amount to units of the native token (exact)
func WeiToDecimal(wei *uint256.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei.ToBig(), -constants.NativeTokenDecimals)
}

// WeiToFloat converts a wei amount to units of the native token.
// Precision is lost for large amounts; suitable for display only.
func WeiToFloat(wei *uint256.Int) float64 {
	return WeiToDecimal(wei).InexactFloat64()
}

// ValidateBridgeURL validates that a provider bridge URL is secure.
// Plain ws:// is only accepted for loopback hosts.
func ValidateBridgeURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid bridge URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "wss":
		if u.Host == "" {
			return fmt.Errorf("bridge URL has no host: %s", raw)
		}
		return nil
	case "ws":
		switch u.Hostname() {
		case "localhost", "127.0.0.1", "::1":
			return nil
		}
	}
	return fmt.Errorf("bridge URL must use WSS: %s", raw)
}
