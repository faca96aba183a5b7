package parser

import (
	"testing"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorAmountTier(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name             string
		line             string
		expectOK         bool
		expectedAmount   string
		expectedCurrency string
	}{
		{name: "canonical", line: "Received: 12.5 #USDT", expectOK: true, expectedAmount: "12.5", expectedCurrency: "USDT"},
		{name: "surrounding_whitespace", line: "   Received:    12.5    #USDT   ", expectOK: true, expectedAmount: "12.5", expectedCurrency: "USDT"},
		{name: "no_hash", line: "Received: 130 USDT", expectOK: true, expectedAmount: "130", expectedCurrency: "USDT"},
		{name: "case_insensitive", line: "RECEIVED: 0.5 #bnb", expectOK: true, expectedAmount: "0.5", expectedCurrency: "BNB"},
		{name: "no_space", line: "Received:19.99#usdt", expectOK: true, expectedAmount: "19.99", expectedCurrency: "USDT"},
		{name: "prefix_noise", line: "🟢 Received: 5.00 #TRX ($0.60) from TXabc123", expectOK: true, expectedAmount: "5", expectedCurrency: "TRX"},
		{name: "digits_in_code", line: "Received: 3 #USDC2", expectOK: true, expectedAmount: "3", expectedCurrency: "USDC2"},
		{name: "underscore_after_code", line: "Received: 19.99 #USDT_TRC20 ($19.99)", expectOK: true, expectedAmount: "19.99", expectedCurrency: "USDT"},
		{name: "code_before_punctuation", line: "Received: 7 USDT, thanks", expectOK: true, expectedAmount: "7", expectedCurrency: "USDT"},
		{name: "malformed_number", line: "Received: 1.2.3 #USDT", expectOK: false},
		{name: "exponent_number", line: "received: 1e5 USDT", expectOK: false},
		{name: "letters_inside_number", line: "Received: 10x2 USDT", expectOK: false},
		{name: "trailing_dot", line: "Received: 5. USDT", expectOK: false},
		{name: "code_glued_to_number", line: "Received: 19.99USDT", expectOK: false},
		{name: "leading_dot", line: "Received: .5 #USDT", expectOK: false},
		{name: "negative", line: "Received: -5 #USDT", expectOK: false},
		{name: "numeric_code", line: "Received: 5 #12", expectOK: false},
		{name: "code_too_long", line: "Received: 5 #ABCDEFGHIJKL", expectOK: false},
		{name: "missing_keyword", line: "Sent: 5 #USDT", expectOK: false},
		{name: "stray_numbers_in_url", line: "https://tronscan.org/#/transaction/123456 received", expectOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := e.Extract(tt.line)
			require.Equal(t, tt.expectOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.expectedAmount, tx.Amount.String())
			assert.Equal(t, tt.expectedCurrency, tx.Currency)
		})
	}
}

func TestExtractorAddressTiers(t *testing.T) {
	e := NewExtractor()
	evm := "0x1234567890abcdef1234567890abcdef12345678"
	tron := "TXYZopYRdj2D9XRtbG411XZZ3kM5VkAeBf"

	tests := []struct {
		name            string
		line            string
		expectedAddress string
		expectedKind    model.AddressKind
		expectedNetwork string
	}{
		{
			name:            "from_token",
			line:            "Received: 5.00 #TRX ($0.60) from TXabc123",
			expectedAddress: "TXabc123",
			expectedKind:    model.AddressShort,
		},
		{
			name:            "from_token_stops_at_paren",
			line:            "Received: 1 #USDT from 0xabc...123(Binance)",
			expectedAddress: "0xabc...123",
			expectedKind:    model.AddressShort,
		},
		{
			name:            "from_token_stops_at_pipe",
			line:            "Received: 1 #USDT from 0xabc...123| memo",
			expectedAddress: "0xabc...123",
			expectedKind:    model.AddressShort,
		},
		{
			name:            "explorer_wins_over_from",
			line:            "Received: 1 #BNB from 0x1234...5678 https://bscscan.com/address/" + evm,
			expectedAddress: evm,
			expectedKind:    model.AddressCanonical,
			expectedNetwork: model.NetworkBNB,
		},
		{
			name:            "tronscan",
			line:            "Received: 1 #USDT https://tronscan.org/#/address/" + tron,
			expectedAddress: tron,
			expectedKind:    model.AddressCanonical,
			expectedNetwork: model.NetworkTron,
		},
		{
			name:         "no_address",
			line:         "Received: 1 #USDT",
			expectedKind: model.AddressNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := e.Extract(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.expectedAddress, tx.Address)
			assert.Equal(t, tt.expectedKind, tx.AddressKind)
			assert.Equal(t, tt.expectedNetwork, tx.Network)
		})
	}
}

func TestExtractorQuotedUSD(t *testing.T) {
	e := NewExtractor()

	tx, ok := e.Extract("Received: 19.99 #USDT ($19.99) from Binance")
	require.True(t, ok)
	require.True(t, tx.QuotedUSD.Valid)
	assert.Equal(t, "19.99", tx.QuotedUSD.Decimal.StringFixed(2))

	tx, ok = e.Extract("Received: 2 #ETH ($6,001.50)")
	require.True(t, ok)
	require.True(t, tx.QuotedUSD.Valid)
	assert.Equal(t, "6001.50", tx.QuotedUSD.Decimal.StringFixed(2))

	tx, ok = e.Extract("Received: 2 #ETH")
	require.True(t, ok)
	assert.False(t, tx.QuotedUSD.Valid)
}

func TestExplorerPatterns(t *testing.T) {
	evm := "0xAbCdEf0123456789abcdef0123456789ABCDEF01"

	tests := []struct {
		line    string
		network string
		address string
	}{
		{"https://etherscan.io/address/" + evm, model.NetworkEthereum, evm},
		{"https://BscScan.com/address/" + evm, model.NetworkBNB, evm},
		{"https://polygonscan.com/address/" + evm, model.NetworkPolygon, evm},
		{"https://arbiscan.io/address/" + evm, model.NetworkArbitrum, evm},
		{"https://snowtrace.io/address/" + evm, model.NetworkAvalanche, evm},
		{"https://ftmscan.com/address/" + evm, model.NetworkFantom, evm},
		{"https://solscan.io/account/7EcDhSYGxXyscszYEp35KHN8vvw3svAuLKTzXwCFLtV", model.NetworkSolana, "7EcDhSYGxXyscszYEp35KHN8vvw3svAuLKTzXwCFLtV"},
		{"https://mempool.space/address/bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", model.NetworkBitcoin, "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"},
		{"https://tonviewer.com/EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N", model.NetworkTON, "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"},
	}

	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			got, ok := matchExplorerAddress(tt.line)
			require.True(t, ok, tt.line)
			assert.Equal(t, tt.network, got.Network)
			assert.Equal(t, tt.address, got.Address)
			assert.Equal(t, model.AddressCanonical, got.Kind)
		})
	}

	_, ok := matchExplorerAddress("https://etherscan.io/tx/" + evm)
	assert.False(t, ok, "transaction links are not addresses")
	assert.Len(t, SupportedNetworks(), len(explorers))
}

func TestFindCanonicalAddress(t *testing.T) {
	e := NewExtractor()

	_, ok := e.FindCanonicalAddress("from TXabc123")
	assert.False(t, ok, "short tokens are not canonical")

	got, ok := e.FindCanonicalAddress("View: https://tronscan.io/#/address/TXYZopYRdj2D9XRtbG411XZZ3kM5VkAeBf")
	require.True(t, ok)
	assert.Equal(t, model.NetworkTron, got.Network)
}
