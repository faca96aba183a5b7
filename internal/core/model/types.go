package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GroupLabel is a normalized grouping key derived from a hashtag line.
type GroupLabel string

// NormalizeLabel strips one leading '#', collapses whitespace runs and lowercases.
// An empty result means the line carries no usable label.
func NormalizeLabel(raw string) GroupLabel {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	s = strings.Join(strings.Fields(s), " ")
	return GroupLabel(strings.ToLower(s))
}

func (l GroupLabel) String() string {
	return string(l)
}

// IsZero reports whether the label is empty.
func (l GroupLabel) IsZero() bool {
	return l == ""
}

// ParsedTransaction is one received transfer extracted from a notification line.
type ParsedTransaction struct {
	Amount      decimal.Decimal     `json:"amount"`
	Currency    string              `json:"currency"`
	Address     string              `json:"address,omitempty"`
	AddressKind AddressKind         `json:"addressKind,omitempty"`
	Network     string              `json:"network,omitempty"`
	QuotedUSD   decimal.NullDecimal `json:"quotedUsd"`
}

// HasAddress reports whether any form of counterparty address is known.
func (t ParsedTransaction) HasAddress() bool {
	return t.Address != "" && t.AddressKind != AddressNone
}

// WithAddress returns a copy carrying the given address. A canonical address
// always replaces a short one; a short one never replaces a canonical one.
func (t ParsedTransaction) WithAddress(address string, kind AddressKind, network string) ParsedTransaction {
	if address == "" || kind == AddressNone {
		return t
	}
	if t.AddressKind == AddressCanonical && kind != AddressCanonical {
		return t
	}
	t.Address = address
	t.AddressKind = kind
	t.Network = network
	return t
}

// Status is a snapshot of how much has been accumulated since the last clear.
type Status struct {
	LabelCount       int `json:"labelCount"`
	TransactionCount int `json:"transactionCount"`
	AddressCount     int `json:"addressCount"`
}
