package parser

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
)

// LabelPolicy decides which grouping key, if any, a hashtag line defines.
type LabelPolicy interface {
	DeriveLabel(line string) (model.GroupLabel, bool)
	Name() string
}

const (
	PolicyHashtag = "hashtag"
	PolicyNetwork = "network"
)

// NewLabelPolicy returns the policy registered under name.
func NewLabelPolicy(name string) (LabelPolicy, error) {
	switch strings.ToLower(name) {
	case PolicyHashtag, "":
		return HashtagPolicy{}, nil
	case PolicyNetwork:
		return NetworkPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown label policy: %s (valid: %s, %s)", name, PolicyHashtag, PolicyNetwork)
	}
}

// HashtagPolicy treats the whole normalized hashtag line as an opaque label.
type HashtagPolicy struct{}

func (HashtagPolicy) DeriveLabel(line string) (model.GroupLabel, bool) {
	label := model.NormalizeLabel(line)
	return label, !label.IsZero()
}

func (HashtagPolicy) Name() string { return PolicyHashtag }

// networkAliases maps token-standard hashtags onto their network.
var networkAliases = map[string]string{
	"trc20":   model.NetworkTron,
	"trx":     model.NetworkTron,
	"bep20":   model.NetworkBNB,
	"bsc":     model.NetworkBNB,
	"erc20":   model.NetworkEthereum,
	"polygon": model.NetworkPolygon,
}

// NetworkPolicy groups by the first word of the hashtag line that names a
// known network; hashtag lines without one are ignored.
type NetworkPolicy struct{}

func (NetworkPolicy) DeriveLabel(line string) (model.GroupLabel, bool) {
	for _, word := range strings.Fields(string(model.NormalizeLabel(line))) {
		word = strings.TrimPrefix(word, "#")
		if _, ok := model.NetworkCurrency[word]; ok {
			return model.GroupLabel(word), true
		}
		if network, ok := networkAliases[word]; ok {
			return model.GroupLabel(network), true
		}
	}
	return "", false
}

func (NetworkPolicy) Name() string { return PolicyNetwork }
