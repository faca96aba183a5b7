package parser

import (
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
)

// Kind is the role a single line plays in a notification block.
type Kind int

const (
	Noise Kind = iota
	LabelMarker
	TransactionCandidate
)

func (k Kind) String() string {
	switch k {
	case LabelMarker:
		return "label"
	case TransactionCandidate:
		return "transaction"
	default:
		return "noise"
	}
}

const transactionKeyword = "received:"

// Classification is the result of classifying one line.
type Classification struct {
	Kind  Kind
	Label model.GroupLabel
}

// Classifier sorts trimmed lines into label markers, transaction candidates and noise.
type Classifier struct {
	policy LabelPolicy
}

// NewClassifier creates a classifier; a nil policy means HashtagPolicy.
func NewClassifier(policy LabelPolicy) *Classifier {
	if policy == nil {
		policy = HashtagPolicy{}
	}
	return &Classifier{policy: policy}
}

// Policy returns the label policy in use.
func (c *Classifier) Policy() LabelPolicy {
	return c.policy
}

// Classify inspects one line. Hashtag lines rejected by the policy are noise.
func (c *Classifier) Classify(line string) Classification {
	line = strings.TrimSpace(line)
	if line == "" {
		return Classification{Kind: Noise}
	}

	if strings.HasPrefix(line, "#") {
		if label, ok := c.policy.DeriveLabel(line); ok {
			return Classification{Kind: LabelMarker, Label: label}
		}
		return Classification{Kind: Noise}
	}

	if strings.Contains(strings.ToLower(line), transactionKeyword) {
		return Classification{Kind: TransactionCandidate}
	}
	return Classification{Kind: Noise}
}
