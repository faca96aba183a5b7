package parser

import (
	"testing"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name          string
		line          string
		expectedKind  Kind
		expectedLabel model.GroupLabel
	}{
		{name: "label", line: "#oscar max bnb", expectedKind: LabelMarker, expectedLabel: "oscar max bnb"},
		{name: "label_normalized", line: "  #Oscar   MAX bnb ", expectedKind: LabelMarker, expectedLabel: "oscar max bnb"},
		{name: "bare_hash", line: "#", expectedKind: Noise},
		{name: "transaction", line: "Received: 19.99 #USDT ($19.99) from Binance", expectedKind: TransactionCandidate},
		{name: "transaction_lowercase", line: "✅ received: 5 trx", expectedKind: TransactionCandidate},
		{name: "transaction_without_number_is_still_candidate", line: "Received: nothing", expectedKind: TransactionCandidate},
		{name: "hash_wins_over_keyword", line: "#Received: 5 USDT", expectedKind: LabelMarker, expectedLabel: "received: 5 usdt"},
		{name: "noise", line: "Tx: https://tronscan.org/#/transaction/abc", expectedKind: Noise},
		{name: "empty", line: "   ", expectedKind: Noise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.line)
			assert.Equal(t, tt.expectedKind, got.Kind)
			assert.Equal(t, tt.expectedLabel, got.Label)
		})
	}
}

func TestClassifierWithNetworkPolicy(t *testing.T) {
	c := NewClassifier(NetworkPolicy{})

	got := c.Classify("#oscar max bnb")
	assert.Equal(t, LabelMarker, got.Kind)
	assert.Equal(t, model.GroupLabel("bnb"), got.Label)

	got = c.Classify("#jack trc20")
	assert.Equal(t, LabelMarker, got.Kind)
	assert.Equal(t, model.GroupLabel("tron"), got.Label)

	got = c.Classify("#just a name")
	assert.Equal(t, Noise, got.Kind, "hashtags without a network are ignored by the network policy")
}

func TestNewLabelPolicy(t *testing.T) {
	tests := []struct {
		name        string
		expected    string
		expectError bool
	}{
		{name: "", expected: PolicyHashtag},
		{name: "hashtag", expected: PolicyHashtag},
		{name: "NETWORK", expected: PolicyNetwork},
		{name: "address", expectError: true},
	}

	for _, tt := range tests {
		t.Run("policy_"+tt.name, func(t *testing.T) {
			policy, err := NewLabelPolicy(tt.name)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy.Name())
			assert.Equal(t, tt.expected, NewClassifier(policy).Policy().Name())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "label", LabelMarker.String())
	assert.Equal(t, "transaction", TransactionCandidate.String())
	assert.Equal(t, "noise", Noise.String())
}
