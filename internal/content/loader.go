// Package content loads card, status and enemy definitions from YAML content
// packs and converts them into the combat core's types.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/combat"
	"github.com/deckforge/combat-core-go/internal/game/intent"
	"github.com/deckforge/combat-core-go/internal/game/status"
)

// ErrInvalidContent wraps every content validation failure.
var ErrInvalidContent = errors.New("invalid content")

// Pack is a loaded, validated content pack.
type Pack struct {
	Statuses    *status.Registry
	Cards       map[string]*cards.Definition
	Enemies     map[string]*combat.EnemyDefinition
	StarterDeck []*cards.Definition

	cardOrder      []string
	encounters     map[string][]*combat.EnemyDefinition
	encounterOrder []string
}

// CardIDs returns card ids in declaration order.
func (p *Pack) CardIDs() []string {
	return append([]string(nil), p.cardOrder...)
}

// EncounterIDs returns encounter ids in declaration order.
func (p *Pack) EncounterIDs() []string {
	return append([]string(nil), p.encounterOrder...)
}

// Encounter returns the enemies of the named encounter; an empty id selects
// the first declared encounter.
func (p *Pack) Encounter(id string) ([]*combat.EnemyDefinition, error) {
	if id == "" {
		if len(p.encounterOrder) == 0 {
			return nil, fmt.Errorf("%w: pack declares no encounters", ErrInvalidContent)
		}
		id = p.encounterOrder[0]
	}
	enemies, ok := p.encounters[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown encounter %q", ErrInvalidContent, id)
	}
	return enemies, nil
}

// Load reads and parses the content pack at path.
func Load(path string) (*Pack, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content pack %s: %w", path, err)
	}
	pack, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("content pack %s: %w", path, err)
	}
	return pack, nil
}

// Parse decodes a content pack. Built-in status definitions are always
// present; the pack may add kinds or replace built-in ones. Enemy intent
// weights are normalized here so selection never has to.
func Parse(data []byte) (*Pack, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var raw packFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	p := &Pack{
		Statuses:   status.NewDefaultRegistry(),
		Cards:      make(map[string]*cards.Definition),
		Enemies:    make(map[string]*combat.EnemyDefinition),
		encounters: make(map[string][]*combat.EnemyDefinition),
	}

	for i, s := range raw.Statuses {
		def, err := convertStatus(s)
		if err != nil {
			return nil, fmt.Errorf("status %d: %w", i, err)
		}
		p.Statuses.Register(def)
	}

	for _, c := range raw.Cards {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: card without id", ErrInvalidContent)
		}
		if _, dup := p.Cards[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate card %q", ErrInvalidContent, c.ID)
		}
		def, err := p.convertCard(c)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", c.ID, err)
		}
		p.Cards[c.ID] = def
		p.cardOrder = append(p.cardOrder, c.ID)
	}

	for _, e := range raw.Enemies {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: enemy without id", ErrInvalidContent)
		}
		if _, dup := p.Enemies[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate enemy %q", ErrInvalidContent, e.ID)
		}
		def, err := p.convertEnemy(e)
		if err != nil {
			return nil, fmt.Errorf("enemy %q: %w", e.ID, err)
		}
		p.Enemies[e.ID] = def
	}

	for _, entry := range raw.StarterDeck {
		def, ok := p.Cards[entry.Card]
		if !ok {
			return nil, fmt.Errorf("%w: starter deck references unknown card %q", ErrInvalidContent, entry.Card)
		}
		count := entry.Count
		if count == 0 {
			count = 1
		}
		if count < 0 {
			return nil, fmt.Errorf("%w: starter deck count for %q is negative", ErrInvalidContent, entry.Card)
		}
		for i := 0; i < count; i++ {
			p.StarterDeck = append(p.StarterDeck, def)
		}
	}

	for _, enc := range raw.Encounters {
		if enc.ID == "" || len(enc.Enemies) == 0 {
			return nil, fmt.Errorf("%w: encounter needs an id and at least one enemy", ErrInvalidContent)
		}
		if _, dup := p.encounters[enc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate encounter %q", ErrInvalidContent, enc.ID)
		}
		enemies := make([]*combat.EnemyDefinition, 0, len(enc.Enemies))
		for _, id := range enc.Enemies {
			def, ok := p.Enemies[id]
			if !ok {
				return nil, fmt.Errorf("%w: encounter %q references unknown enemy %q", ErrInvalidContent, enc.ID, id)
			}
			enemies = append(enemies, def)
		}
		p.encounters[enc.ID] = enemies
		p.encounterOrder = append(p.encounterOrder, enc.ID)
	}

	return p, nil
}

func convertStatus(s statusYAML) (*status.Definition, error) {
	if s.Kind == "" {
		return nil, fmt.Errorf("%w: status without kind", ErrInvalidContent)
	}
	def := &status.Definition{
		Kind:   status.Kind(strings.ToLower(s.Kind)),
		Name:   s.Name,
		Debuff: s.Debuff,
		Decay:  status.DecayIntensity,
		Timing: status.TimingPassive,
	}
	if s.Decay != "" {
		decay, err := status.ParseDecayMode(s.Decay)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		def.Decay = decay
	}
	if s.Timing != "" {
		timing, err := status.ParseTriggerTiming(s.Timing)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		def.Timing = timing
	}
	return def, nil
}

func (p *Pack) convertCard(c cardYAML) (*cards.Definition, error) {
	if c.Cost < 0 {
		return nil, fmt.Errorf("%w: negative cost", ErrInvalidContent)
	}
	effs, err := p.convertEffects(c.Effects)
	if err != nil {
		return nil, err
	}
	def := &cards.Definition{
		ID:      c.ID,
		Name:    c.Name,
		Cost:    c.Cost,
		Exhaust: c.Exhaust,
		Effects: effs,
	}
	if c.Upgrade != nil {
		upEffects, err := p.convertEffects(c.Upgrade.Effects)
		if err != nil {
			return nil, fmt.Errorf("upgrade: %w", err)
		}
		def.Upgrade = &cards.Upgrade{Cost: c.Upgrade.Cost, Effects: upEffects}
	}
	return def, nil
}

func (p *Pack) convertEnemy(e enemyYAML) (*combat.EnemyDefinition, error) {
	if e.MaxHP <= 0 {
		return nil, fmt.Errorf("%w: max_hp must be positive", ErrInvalidContent)
	}
	ai, err := convertAI(e.AI)
	if err != nil {
		return nil, err
	}
	def := &combat.EnemyDefinition{
		ID:    e.ID,
		Name:  e.Name,
		MaxHP: e.MaxHP,
		AI:    ai,
		Moves: make(map[intent.Kind][]cards.Effect, len(e.Moves)),
	}
	for name, raw := range e.Moves {
		kind, err := intent.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		effs, err := p.convertEffects(raw)
		if err != nil {
			return nil, fmt.Errorf("move %q: %w", name, err)
		}
		def.Moves[kind] = effs
	}
	for _, k := range ai.Intents() {
		if _, ok := def.Moves[k]; !ok {
			return nil, fmt.Errorf("%w: intent %q has no move", ErrInvalidContent, k)
		}
	}
	return def, nil
}

func convertAI(a aiYAML) (intent.Config, error) {
	cfg := intent.Config{
		AntiRepetition: a.AntiRepetition,
		MaxConsecutive: a.MaxConsecutive,
	}
	var err error
	if cfg.DefaultWeights, err = convertWeights(a.DefaultWeights); err != nil {
		return cfg, err
	}
	for _, hb := range a.HealthBehaviors {
		if hb.Threshold < 0 || hb.Threshold > 1 {
			return cfg, fmt.Errorf("%w: health threshold %v outside [0, 1]", ErrInvalidContent, hb.Threshold)
		}
		weights, err := convertWeights(hb.Weights)
		if err != nil {
			return cfg, err
		}
		cfg.HealthBehaviors = append(cfg.HealthBehaviors, intent.HealthBehavior{Threshold: hb.Threshold, Weights: weights})
	}
	// Health behaviors are on whenever some are declared, unless switched off.
	cfg.UseHealthBehavior = len(cfg.HealthBehaviors) > 0
	if a.UseHealthBehavior != nil {
		cfg.UseHealthBehavior = *a.UseHealthBehavior
	}
	if a.FirstTurn != "" {
		if cfg.FirstTurnIntent, err = intent.ParseKind(a.FirstTurn); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
	}
	if a.Fallback != "" {
		if cfg.Fallback, err = intent.ParseKind(a.Fallback); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
	}
	if cfg.AntiRepetition && cfg.MaxConsecutive <= 0 {
		return cfg, fmt.Errorf("%w: anti_repetition needs a positive max_consecutive", ErrInvalidContent)
	}
	cfg.Normalize()
	return cfg, nil
}

func convertWeights(raw []weightYAML) ([]intent.Weight, error) {
	out := make([]intent.Weight, 0, len(raw))
	for _, w := range raw {
		kind, err := intent.ParseKind(w.Intent)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		if w.Weight < 0 {
			return nil, fmt.Errorf("%w: negative weight for %q", ErrInvalidContent, kind)
		}
		out = append(out, intent.Weight{Intent: kind, Weight: w.Weight})
	}
	return out, nil
}

func (p *Pack) convertEffects(raw []effectYAML) ([]cards.Effect, error) {
	out := make([]cards.Effect, 0, len(raw))
	for i, r := range raw {
		eff, err := p.convertEffect(r)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		out = append(out, eff)
	}
	return out, nil
}

func (p *Pack) convertEffect(r effectYAML) (cards.Effect, error) {
	target := func(def cards.TargetType) (cards.TargetType, error) {
		if r.Target == "" {
			return def, nil
		}
		t, err := cards.ParseTargetType(r.Target)
		if err != nil {
			return def, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return t, nil
	}

	switch strings.ToLower(r.Type) {
	case "damage":
		t, err := target(cards.TargetSingleEnemy)
		if err != nil {
			return nil, err
		}
		if t == cards.TargetSelf {
			return nil, fmt.Errorf("%w: damage cannot target self", ErrInvalidContent)
		}
		return cards.Damage{Amount: r.Amount, Hits: r.Hits, Target: t}, nil
	case "block":
		return cards.Block{Amount: r.Amount}, nil
	case "draw":
		return cards.Draw{Count: r.Count}, nil
	case "heal":
		t, err := target(cards.TargetSelf)
		if err != nil {
			return nil, err
		}
		if t == cards.TargetAllEnemies {
			return nil, fmt.Errorf("%w: heal cannot target all enemies", ErrInvalidContent)
		}
		return cards.Heal{Amount: r.Amount, Target: t}, nil
	case "apply_status":
		t, err := target(cards.TargetSingleEnemy)
		if err != nil {
			return nil, err
		}
		kind := strings.ToLower(r.Status)
		if _, ok := p.Statuses.Get(status.Kind(kind)); !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidContent, r.Status)
		}
		return cards.ApplyStatus{Status: kind, Stacks: r.Stacks, Target: t}, nil
	case "gain_energy":
		return cards.GainEnergy{Amount: r.Amount}, nil
	case "discard":
		return cards.Discard{Count: r.Count}, nil
	case "exhaust":
		return cards.Exhaust{Count: r.Count}, nil
	default:
		return nil, fmt.Errorf("%w: unknown effect type %q", ErrInvalidContent, r.Type)
	}
}
