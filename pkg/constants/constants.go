package constants

import "time"

// JSON-RPC methods used by the client
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodGetBalance      = "eth_getBalance"
	MethodChainID         = "eth_chainId"

	BlockLatest = "latest"
)

// Provider events (EIP-1193)
const (
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
	EventMessage         = "message"
)

// Provider error codes (EIP-1193)
const (
	CodeUserRejectedRequest = 4001
	CodeUnauthorised        = 4100
	CodeUnsupportedMethod   = 4200
	CodeDisconnected        = 4900
	CodeChainDisconnected   = 4901
)

// Default messages used when the provider omits one
const (
	MessageUserRejectedRequest = "The user rejected the request."
	MessageUnauthorised        = "The requested method and/or account has not been authorized by the user."
	MessageUnsupportedMethod   = "The Provider does not support the requested method."
	MessageDisconnected        = "The Provider is disconnected from all chains."
	MessageChainDisconnected   = "The Provider is not connected to the requested chain."
)

const (
	NativeTokenDecimals = 18 // wei per unit = 10^18
)

const (
	BridgeHandshakeTimeout = 5 * time.Second  // timeout for websocket handshake with the host bridge
	BridgePingInterval     = 15 * time.Second // keepalive ping interval
	BridgeWriteTimeout     = 10 * time.Second // timeout for a single frame write
	MaxFrameSize           = 10 * 1024 * 1024 // maximum bridge frame size in bytes (10MB)
	RPCDialTimeout         = 10 * time.Second // timeout for dialing a node endpoint
)
