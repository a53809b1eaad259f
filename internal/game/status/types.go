package status

import (
	"fmt"
	"strings"
)

// Kind identifies a status effect. Designers may author kinds beyond the
// built-in ones; unknown kinds stack and decay but have no trigger behavior.
type Kind string

const (
	KindPoison       Kind = "poison"
	KindRegeneration Kind = "regeneration"
	KindStrength     Kind = "strength"
	KindDexterity    Kind = "dexterity"
	KindWeak         Kind = "weak"
	KindVulnerable   Kind = "vulnerable"
	KindFrail        Kind = "frail"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// DecayMode describes what stacks mean.
type DecayMode int

const (
	// DecayIntensity stacks are a permanent magnitude.
	DecayIntensity DecayMode = iota
	// DecayDuration stacks count remaining turns.
	DecayDuration
)

func (d DecayMode) String() string {
	switch d {
	case DecayIntensity:
		return "INTENSITY"
	case DecayDuration:
		return "DURATION"
	default:
		return fmt.Sprintf("DECAY_%d", int(d))
	}
}

// ParseDecayMode parses "intensity" or "duration".
func ParseDecayMode(s string) (DecayMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTENSITY":
		return DecayIntensity, nil
	case "DURATION":
		return DecayDuration, nil
	default:
		return DecayIntensity, fmt.Errorf("unknown decay mode %q", s)
	}
}

// TriggerTiming is the phase at which a status resolves its built-in behavior.
type TriggerTiming int

const (
	TimingTurnStart TriggerTiming = iota
	TimingTurnEnd
	TimingOnDamageDealt
	TimingOnDamageTaken
	TimingOnBlock
	TimingOnCardPlayed
	TimingPassive
)

var timingNames = map[TriggerTiming]string{
	TimingTurnStart:     "TURN_START",
	TimingTurnEnd:       "TURN_END",
	TimingOnDamageDealt: "ON_DAMAGE_DEALT",
	TimingOnDamageTaken: "ON_DAMAGE_TAKEN",
	TimingOnBlock:       "ON_BLOCK",
	TimingOnCardPlayed:  "ON_CARD_PLAYED",
	TimingPassive:       "PASSIVE",
}

func (t TriggerTiming) String() string {
	if name, ok := timingNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TIMING_%d", int(t))
}

// ParseTriggerTiming parses a timing name such as "turn_end".
func ParseTriggerTiming(s string) (TriggerTiming, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for timing, name := range timingNames {
		if name == normalized {
			return timing, nil
		}
	}
	return TimingPassive, fmt.Errorf("unknown trigger timing %q", s)
}

// Definition is the read-only authored description of a status effect.
type Definition struct {
	Kind   Kind
	Name   string
	Debuff bool
	Decay  DecayMode
	Timing TriggerTiming
}

// DefaultDefinitions returns the built-in status definitions.
func DefaultDefinitions() []*Definition {
	return []*Definition{
		{Kind: KindPoison, Name: "Poison", Debuff: true, Decay: DecayDuration, Timing: TimingTurnEnd},
		{Kind: KindRegeneration, Name: "Regeneration", Decay: DecayDuration, Timing: TimingTurnEnd},
		{Kind: KindStrength, Name: "Strength", Decay: DecayIntensity, Timing: TimingPassive},
		{Kind: KindDexterity, Name: "Dexterity", Decay: DecayIntensity, Timing: TimingPassive},
		{Kind: KindWeak, Name: "Weak", Debuff: true, Decay: DecayDuration, Timing: TimingPassive},
		{Kind: KindVulnerable, Name: "Vulnerable", Debuff: true, Decay: DecayDuration, Timing: TimingPassive},
		{Kind: KindFrail, Name: "Frail", Debuff: true, Decay: DecayDuration, Timing: TimingPassive},
	}
}

// Registry holds status definitions keyed by kind.
type Registry struct {
	defs  map[Kind]*Definition
	order []Kind
}

// NewRegistry creates a registry from the given definitions. Later
// definitions of the same kind replace earlier ones.
func NewRegistry(defs ...*Definition) *Registry {
	r := &Registry{defs: make(map[Kind]*Definition)}
	for _, def := range defs {
		r.Register(def)
	}
	return r
}

// NewDefaultRegistry creates a registry holding DefaultDefinitions.
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultDefinitions()...)
}

// Register adds or replaces a definition.
func (r *Registry) Register(def *Definition) {
	if def == nil || def.Kind == "" {
		return
	}
	if _, exists := r.defs[def.Kind]; !exists {
		r.order = append(r.order, def.Kind)
	}
	r.defs[def.Kind] = def
}

// Get returns the definition for kind.
func (r *Registry) Get(kind Kind) (*Definition, bool) {
	if r == nil {
		return nil, false
	}
	def, ok := r.defs[kind]
	return def, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}
