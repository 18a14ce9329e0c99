package wsbridge

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/evilrobotindustries/eth-wasm/pkg/constants"
)

// Config contains configuration options for the bridge connection
type Config struct {
	// HandshakeTimeout is the duration to wait for the websocket handshake
	HandshakeTimeout time.Duration `env:"BRIDGE_HANDSHAKE_TIMEOUT" env-default:"5s"`

	// PingInterval is how often a keepalive ping is sent. Zero disables pings.
	PingInterval time.Duration `env:"BRIDGE_PING_INTERVAL" env-default:"15s"`

	// WriteTimeout bounds a single frame write
	WriteTimeout time.Duration `env:"BRIDGE_WRITE_TIMEOUT" env-default:"10s"`

	// MaxFrameSize is the largest frame accepted from the host, in bytes
	MaxFrameSize int64 `env:"BRIDGE_MAX_FRAME_SIZE" env-default:"10485760"`

	// EventBufferSize is the number of events queued for dispatch before the
	// read loop blocks
	EventBufferSize int `env:"BRIDGE_EVENT_BUFFER_SIZE" env-default:"100"`
}

// DefaultConfig provides defaults for bridge connections
var DefaultConfig = Config{
	HandshakeTimeout: constants.BridgeHandshakeTimeout,
	PingInterval:     constants.BridgePingInterval,
	WriteTimeout:     constants.BridgeWriteTimeout,
	MaxFrameSize:     constants.MaxFrameSize,
	EventBufferSize:  100,
}

// LoadConfig reads the bridge configuration from BRIDGE_* environment
// variables. Unset variables take the DefaultConfig values.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read bridge config: %w", err)
	}
	return cfg, nil
}
