package parser

import (
	"regexp"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/shopspring/decimal"
)

var (
	receivedPattern = regexp.MustCompile(`(?i)received:\s*(\d+(?:\.\d+)?)(?:\s+#?|#)([a-z0-9]{2,10})(?:[^a-z0-9]|$)`)
	amountPattern   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	quotedPattern   = regexp.MustCompile(`\(\$\s*([\d.,]+)\)`)
	fromPattern     = regexp.MustCompile(`(?i)\bfrom\s+([^\s(|]+)`)
)

// AmountMatch is the result of the mandatory amount tier.
type AmountMatch struct {
	Amount    decimal.Decimal
	Currency  string
	QuotedUSD decimal.NullDecimal
}

// AddressMatch is the result of an address tier.
type AddressMatch struct {
	Address string
	Kind    model.AddressKind
	Network string
}

// AmountMatcher extracts amount and currency from one line.
type AmountMatcher func(line string) (AmountMatch, bool)

// AddressMatcher extracts a counterparty address from one line.
type AddressMatcher func(line string) (AddressMatch, bool)

// Extractor turns a transaction candidate line into a ParsedTransaction.
// The amount tier must succeed; address tiers run in order and the first hit wins.
type Extractor struct {
	amount       AmountMatcher
	addressTiers []AddressMatcher
}

// NewExtractor creates an extractor with the standard tiers:
// "Received: <n> #CODE", then explorer URLs, then the token after "from".
func NewExtractor() *Extractor {
	return &Extractor{
		amount:       matchReceivedAmount,
		addressTiers: []AddressMatcher{matchExplorerAddress, matchFromToken},
	}
}

// Extract parses line. It returns false when the amount tier does not match.
func (e *Extractor) Extract(line string) (model.ParsedTransaction, bool) {
	am, ok := e.amount(line)
	if !ok {
		return model.ParsedTransaction{}, false
	}

	tx := model.ParsedTransaction{
		Amount:    am.Amount,
		Currency:  am.Currency,
		QuotedUSD: am.QuotedUSD,
	}
	for _, tier := range e.addressTiers {
		if addr, ok := tier(line); ok {
			tx = tx.WithAddress(addr.Address, addr.Kind, addr.Network)
			break
		}
	}
	return tx, true
}

// FindCanonicalAddress looks for an explorer address on a follow-up line.
func (e *Extractor) FindCanonicalAddress(line string) (AddressMatch, bool) {
	return matchExplorerAddress(line)
}

func matchReceivedAmount(line string) (AmountMatch, bool) {
	m := receivedPattern.FindStringSubmatch(line)
	if m == nil {
		return AmountMatch{}, false
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return AmountMatch{}, false
	}

	currency := strings.ToUpper(m[2])
	if !hasLetter(currency) {
		return AmountMatch{}, false
	}

	return AmountMatch{
		Amount:    amount,
		Currency:  currency,
		QuotedUSD: matchQuotedUSD(line),
	}, true
}

// parseAmount accepts digits with an optional fractional part and nothing else.
func parseAmount(s string) (decimal.Decimal, bool) {
	if !amountPattern.MatchString(s) {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// matchQuotedUSD picks up the informational "($19.99)" hint from the alert line.
func matchQuotedUSD(line string) decimal.NullDecimal {
	m := quotedPattern.FindStringSubmatch(line)
	if m == nil {
		return decimal.NullDecimal{}
	}
	amount, ok := parseAmount(strings.ReplaceAll(m[1], ",", ""))
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(amount)
}

// matchFromToken returns the literal token after "from". It is often a
// shortened address such as 0xabc...123, so it is marked short.
func matchFromToken(line string) (AddressMatch, bool) {
	m := fromPattern.FindStringSubmatch(line)
	if m == nil {
		return AddressMatch{}, false
	}
	return AddressMatch{Address: m[1], Kind: model.AddressShort}, true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return true
		}
	}
	return false
}
