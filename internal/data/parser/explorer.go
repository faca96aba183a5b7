package parser

import (
	"regexp"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
)

// explorer describes one block-explorer address URL shape.
type explorer struct {
	network string
	pattern *regexp.Regexp
}

const (
	evmAddress    = `(0x[0-9a-fA-F]{40})`
	base58Address = `[1-9A-HJ-NP-Za-km-z]`
)

// explorers is checked in order; the first URL found on a line wins.
var explorers = []explorer{
	{model.NetworkTron, regexp.MustCompile(`(?i:tronscan\.(?:org|io))/#/address/(T` + base58Address + `{33})`)},
	{model.NetworkEthereum, regexp.MustCompile(`(?i:etherscan\.io)/address/` + evmAddress)},
	{model.NetworkBNB, regexp.MustCompile(`(?i:bscscan\.com)/address/` + evmAddress)},
	{model.NetworkPolygon, regexp.MustCompile(`(?i:polygonscan\.com)/address/` + evmAddress)},
	{model.NetworkArbitrum, regexp.MustCompile(`(?i:arbiscan\.io)/address/` + evmAddress)},
	{model.NetworkAvalanche, regexp.MustCompile(`(?i:snowtrace\.io)/address/` + evmAddress)},
	{model.NetworkFantom, regexp.MustCompile(`(?i:ftmscan\.com)/address/` + evmAddress)},
	{model.NetworkSolana, regexp.MustCompile(`(?i:solscan\.io)/account/(` + base58Address + `{32,44})`)},
	{model.NetworkBitcoin, regexp.MustCompile(`(?i:mempool\.space|blockstream\.info|blockchair\.com/bitcoin)/address/((?:bc1|[13])[0-9A-Za-z]{25,62})`)},
	{model.NetworkTON, regexp.MustCompile(`(?i:tonviewer\.com|tonscan\.org/address)/((?:EQ|UQ)[0-9A-Za-z_-]{46})`)},
}

// matchExplorerAddress finds a full address inside a known explorer URL.
func matchExplorerAddress(line string) (AddressMatch, bool) {
	for _, e := range explorers {
		if m := e.pattern.FindStringSubmatch(line); m != nil {
			return AddressMatch{Address: m[1], Kind: model.AddressCanonical, Network: e.network}, true
		}
	}
	return AddressMatch{}, false
}

// SupportedNetworks lists the networks that have an explorer pattern.
func SupportedNetworks() []string {
	networks := make([]string, 0, len(explorers))
	for _, e := range explorers {
		networks = append(networks, e.network)
	}
	return networks
}
