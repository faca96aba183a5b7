package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected GroupLabel
	}{
		{name: "simple", input: "#wallet", expected: "wallet"},
		{name: "composite_multi_word", input: "#Oscar   MAX bnb", expected: "oscar max bnb"},
		{name: "already_normalized", input: "oscar max bnb", expected: "oscar max bnb"},
		{name: "surrounding_whitespace", input: "  #jack\ttrc20  ", expected: "jack trc20"},
		{name: "space_after_hash", input: "#  spaced label", expected: "spaced label"},
		{name: "only_hash", input: "#", expected: ""},
		{name: "unicode", input: "#Кошелёк Один", expected: "кошелёк один"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLabel(tt.input))
		})
	}
}

func TestNormalizeLabelIdempotent(t *testing.T) {
	inputs := []string{"#Oscar   MAX bnb", "#jack trc20", "plain", "#A  b  C"}
	for _, in := range inputs {
		once := NormalizeLabel(in)
		twice := NormalizeLabel(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
	assert.Equal(t, NormalizeLabel("#Oscar   MAX bnb"), NormalizeLabel("#oscar max bnb"))
}

func TestGroupLabelIsZero(t *testing.T) {
	assert.True(t, GroupLabel("").IsZero())
	assert.False(t, GroupLabel("x").IsZero())
	assert.Equal(t, "x", GroupLabel("x").String())
}

func TestParsedTransactionWithAddress(t *testing.T) {
	base := ParsedTransaction{Amount: decimal.RequireFromString("1.5"), Currency: "USDT"}
	assert.False(t, base.HasAddress())

	short := base.WithAddress("TXabc...123", AddressShort, "")
	assert.True(t, short.HasAddress())
	assert.Equal(t, AddressShort, short.AddressKind)
	assert.False(t, base.HasAddress(), "original must not be mutated")

	canonical := short.WithAddress("TXabcdefabcdefabcdefabcdefabcdef123", AddressCanonical, NetworkTron)
	assert.Equal(t, AddressCanonical, canonical.AddressKind)
	assert.Equal(t, NetworkTron, canonical.Network)

	downgraded := canonical.WithAddress("other", AddressShort, "")
	assert.Equal(t, canonical, downgraded, "short token must not replace a canonical address")

	unchanged := base.WithAddress("", AddressShort, "")
	assert.Equal(t, base, unchanged)
}
