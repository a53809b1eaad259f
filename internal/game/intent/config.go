// Package intent chooses what a non-player combatant declares it will do
// next turn.
package intent

import (
	"fmt"
	"strings"
)

// Kind is an enemy intent, shown to the player before the enemy acts.
type Kind string

const (
	Attack       Kind = "attack"
	Defend       Kind = "defend"
	Buff         Kind = "buff"
	Debuff       Kind = "debuff"
	AttackDefend Kind = "attack_defend"
	AttackDebuff Kind = "attack_debuff"
	Unknown      Kind = "unknown"
)

func (k Kind) String() string {
	return string(k)
}

// ParseKind normalizes an authored intent name. Any non-empty name is
// accepted so content can declare intents beyond the built-in ones.
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", fmt.Errorf("empty intent kind")
	}
	return Kind(normalized), nil
}

// Weight pairs an intent with its relative selection weight.
type Weight struct {
	Intent Kind
	Weight float64
}

// HealthBehavior is a weight set active while the enemy's health ratio is at
// or below Threshold.
type HealthBehavior struct {
	Threshold float64
	Weights   []Weight
}

// Config is an enemy's AI configuration.
type Config struct {
	DefaultWeights  []Weight
	HealthBehaviors []HealthBehavior

	UseHealthBehavior bool

	// FirstTurnIntent, when set, is returned on the first turn regardless of
	// weights.
	FirstTurnIntent Kind

	AntiRepetition bool
	MaxConsecutive int

	// Fallback is returned when no weight set can produce an intent and
	// the active set has no entries at all.
	Fallback Kind
}

// Normalize rescales every weight set to sum to 1.0. Negative weights are
// clamped to zero; a set whose total is zero is left as is.
func (c *Config) Normalize() {
	c.DefaultWeights = normalizeWeights(c.DefaultWeights)
	for i := range c.HealthBehaviors {
		c.HealthBehaviors[i].Weights = normalizeWeights(c.HealthBehaviors[i].Weights)
	}
}

// Intents returns every intent the configuration can produce, in first
// declaration order.
func (c *Config) Intents() []Kind {
	seen := make(map[Kind]bool)
	var out []Kind
	add := func(k Kind) {
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	add(c.FirstTurnIntent)
	for _, w := range c.DefaultWeights {
		add(w.Intent)
	}
	for _, hb := range c.HealthBehaviors {
		for _, w := range hb.Weights {
			add(w.Intent)
		}
	}
	add(c.Fallback)
	return out
}

func normalizeWeights(weights []Weight) []Weight {
	if len(weights) == 0 {
		return weights
	}
	out := make([]Weight, len(weights))
	copy(out, weights)
	total := 0.0
	for i := range out {
		if out[i].Weight < 0 {
			out[i].Weight = 0
		}
		total += out[i].Weight
	}
	if total <= 0 {
		return out
	}
	for i := range out {
		out[i].Weight /= total
	}
	return out
}

func totalWeight(weights []Weight) float64 {
	total := 0.0
	for _, w := range weights {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	return total
}
