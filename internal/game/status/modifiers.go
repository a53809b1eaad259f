package status

import "math"

const (
	WeakMultiplier       = 0.75
	VulnerableMultiplier = 1.5
	FrailMultiplier      = 0.75
)

// StackReader is the read side of an Engine used by damage and block math.
type StackReader interface {
	StackCount(kind Kind) int
}

// OutgoingDamage applies the attacker's strength and weak to a base amount.
func OutgoingDamage(base int, attacker StackReader) int {
	amount := float64(base + stacks(attacker, KindStrength))
	if stacks(attacker, KindWeak) > 0 {
		amount *= WeakMultiplier
	}
	return floorNonNegative(amount)
}

// IncomingDamage applies the defender's vulnerable to an amount already
// modified by the attacker.
func IncomingDamage(amount int, defender StackReader) int {
	value := float64(amount)
	if stacks(defender, KindVulnerable) > 0 {
		value *= VulnerableMultiplier
	}
	return floorNonNegative(value)
}

// BlockGain applies dexterity and frail to a base block amount.
func BlockGain(base int, owner StackReader) int {
	amount := float64(base + stacks(owner, KindDexterity))
	if stacks(owner, KindFrail) > 0 {
		amount *= FrailMultiplier
	}
	return floorNonNegative(amount)
}

func stacks(r StackReader, kind Kind) int {
	if r == nil {
		return 0
	}
	return r.StackCount(kind)
}

func floorNonNegative(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
