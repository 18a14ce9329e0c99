package chains

import "fmt"

// Chain identifies the network a provider is connected to.
// The named constants form the closed set of known chains; every other value is
// an "other" chain carrying its raw numeric id.
type Chain uint32

// Known chains
const (
	EthereumMainnet        Chain = 1
	EthereumRopstenTestnet Chain = 3
	EthereumRinkebyTestnet Chain = 4
	EthereumGoerliTestnet  Chain = 5
	EthereumKovanTestnet   Chain = 42
	PolygonMainnet         Chain = 137
)

// Token is the native token of a chain
type Token int

const (
	TokenOther Token = iota
	TokenEther
	TokenMatic
)

// String returns the token symbol ("" for TokenOther)
func (t Token) String() string {
	switch t {
	case TokenEther:
		return "ETH"
	case TokenMatic:
		return "MATIC"
	default:
		return ""
	}
}

type knownChain struct {
	name  string
	token Token
}

var knownChains = map[Chain]knownChain{
	EthereumMainnet:        {name: "Ethereum Mainnet", token: TokenEther},
	EthereumRopstenTestnet: {name: "Ethereum Ropsten Testnet", token: TokenEther},
	EthereumRinkebyTestnet: {name: "Ethereum Rinkeby Testnet", token: TokenEther},
	EthereumGoerliTestnet:  {name: "Ethereum Goerli Testnet", token: TokenEther},
	EthereumKovanTestnet:   {name: "Ethereum Kovan Testnet", token: TokenEther},
	PolygonMainnet:         {name: "Polygon Mainnet", token: TokenMatic},
}

// Identify maps a numeric chain id to a Chain. It is total: unknown ids are
// returned as other chains.
func Identify(id uint32) Chain {
	return Chain(id)
}

// ID returns the numeric chain id
func (c Chain) ID() uint32 {
	return uint32(c)
}

// IsKnown reports whether c is one of the named chains
func (c Chain) IsKnown() bool {
	_, ok := knownChains[c]
	return ok
}

// Token returns the native token of the chain
func (c Chain) Token() Token {
	if known, ok := knownChains[c]; ok {
		return known.token
	}
	return TokenOther
}

// String returns the display name of the chain
func (c Chain) String() string {
	if known, ok := knownChains[c]; ok {
		return known.name
	}
	return fmt.Sprintf("Other Network (%d)", uint32(c))
}
