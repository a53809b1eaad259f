package cards

import (
	"fmt"
	"strings"
)

// TargetType selects who an effect descriptor resolves against.
// It is decided per effect, not per card.
type TargetType int

const (
	TargetSelf TargetType = iota
	TargetSingleEnemy
	TargetAllEnemies
	TargetRandomEnemy
)

var targetNames = map[TargetType]string{
	TargetSelf:        "SELF",
	TargetSingleEnemy: "SINGLE_ENEMY",
	TargetAllEnemies:  "ALL_ENEMIES",
	TargetRandomEnemy: "RANDOM_ENEMY",
}

func (t TargetType) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TARGET_%d", int(t))
}

// ParseTargetType parses a target name such as "single_enemy" or "SELF".
func ParseTargetType(s string) (TargetType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range targetNames {
		if name == normalized {
			return t, nil
		}
	}
	return TargetSelf, fmt.Errorf("unknown target type %q", s)
}

// Effect is one declared effect of a card or enemy move. The set of
// implementations is closed; resolve them with a type switch.
type Effect interface {
	// Name returns the descriptor name used in logs.
	Name() string
	isEffect()
}

// Damage deals Amount damage Hits times (at least once).
type Damage struct {
	Amount int
	Hits   int
	Target TargetType
}

// Block grants block to the source.
type Block struct {
	Amount int
}

// Draw draws Count cards for the source.
type Draw struct {
	Count int
}

// Heal restores HP to the source or the chosen target.
type Heal struct {
	Amount int
	Target TargetType
}

// ApplyStatus applies Stacks of the named status kind.
type ApplyStatus struct {
	Status string
	Stacks int
	Target TargetType
}

// GainEnergy adds energy for the current turn.
type GainEnergy struct {
	Amount int
}

// Discard discards Count random cards from the hand.
type Discard struct {
	Count int
}

// Exhaust exhausts Count random cards from the hand.
type Exhaust struct {
	Count int
}

func (Damage) Name() string      { return "damage" }
func (Block) Name() string       { return "block" }
func (Draw) Name() string        { return "draw" }
func (Heal) Name() string        { return "heal" }
func (ApplyStatus) Name() string { return "apply_status" }
func (GainEnergy) Name() string  { return "gain_energy" }
func (Discard) Name() string     { return "discard" }
func (Exhaust) Name() string     { return "exhaust" }

func (Damage) isEffect()      {}
func (Block) isEffect()       {}
func (Draw) isEffect()        {}
func (Heal) isEffect()        {}
func (ApplyStatus) isEffect() {}
func (GainEnergy) isEffect()  {}
func (Discard) isEffect()     {}
func (Exhaust) isEffect()     {}

// HitCount returns the number of damage instances, treating zero as one.
func (d Damage) HitCount() int {
	if d.Hits < 1 {
		return 1
	}
	return d.Hits
}
