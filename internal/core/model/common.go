package model

// AggregationMode selects how the ledger keeps per-label data.
type AggregationMode string

const (
	// ModeSum keeps label -> currency -> running total.
	ModeSum AggregationMode = "sum"
	// ModeList keeps every transaction per label in insertion order.
	ModeList AggregationMode = "list"
)

// LabelScope controls whether the current label survives between messages.
type LabelScope string

const (
	// ScopeMessage resets the current label at the start of every message.
	ScopeMessage LabelScope = "message"
	// ScopeSession carries the most recently seen label across messages.
	ScopeSession LabelScope = "session"
)

// AddressKind describes how an address was recovered from the text.
type AddressKind string

const (
	AddressNone      AddressKind = ""
	AddressShort     AddressKind = "short"
	AddressCanonical AddressKind = "canonical"
)

// Network identifiers used by explorer patterns and the network label policy.
const (
	NetworkTron      = "tron"
	NetworkBNB       = "bnb"
	NetworkEthereum  = "eth"
	NetworkBitcoin   = "btc"
	NetworkSolana    = "sol"
	NetworkPolygon   = "matic"
	NetworkAvalanche = "avax"
	NetworkFantom    = "ftm"
	NetworkArbitrum  = "arb"
	NetworkTON       = "ton"
)

// NetworkCurrency maps a network hashtag to its native coin.
var NetworkCurrency = map[string]string{
	NetworkTron:      "TRX",
	NetworkBNB:       "BNB",
	NetworkEthereum:  "ETH",
	NetworkBitcoin:   "BTC",
	NetworkSolana:    "SOL",
	NetworkPolygon:   "MATIC",
	NetworkAvalanche: "AVAX",
	NetworkFantom:    "FTM",
	NetworkArbitrum:  "ETH",
	NetworkTON:       "TON",
}
