package status

import (
	"testing"

	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeCombatant records damage and healing without any block or HP cap.
type fakeCombatant struct {
	id      string
	damage  []int
	healing []int
}

func (f *fakeCombatant) ID() string { return f.id }

func (f *fakeCombatant) TakeDamage(amount int) int {
	f.damage = append(f.damage, amount)
	return amount
}

func (f *fakeCombatant) Heal(amount int) int {
	f.healing = append(f.healing, amount)
	return amount
}

func newTestEngine(t *testing.T) (*Engine, *fakeCombatant, *rules.EventBus, *Registry) {
	t.Helper()
	owner := &fakeCombatant{id: "player"}
	bus := rules.NewEventBus()
	engine := NewEngine(owner, Options{Bus: bus, Logger: zaptest.NewLogger(t)})
	return engine, owner, bus, NewDefaultRegistry()
}

func mustDef(t *testing.T, r *Registry, kind Kind) *Definition {
	t.Helper()
	def, ok := r.Get(kind)
	require.True(t, ok, "missing definition %s", kind)
	return def
}

func TestApplyAccumulatesStacks(t *testing.T) {
	engine, _, _, registry := newTestEngine(t)
	strength := mustDef(t, registry, KindStrength)

	assert.True(t, engine.Apply(strength, 3))
	assert.True(t, engine.Apply(strength, 2))

	assert.Equal(t, 5, engine.StackCount(KindStrength))
	assert.True(t, engine.HasEffect(KindStrength))
	assert.Len(t, engine.Instances(), 1)
}

func TestApplyIgnoresInvalidInput(t *testing.T) {
	engine, _, bus, registry := newTestEngine(t)
	applied := 0
	bus.SubscribeTyped(rules.EventStatusApplied, func(rules.Event) { applied++ })

	assert.False(t, engine.Apply(nil, 3))
	assert.False(t, engine.Apply(mustDef(t, registry, KindWeak), 0))
	assert.False(t, engine.Apply(mustDef(t, registry, KindWeak), -2))

	assert.Empty(t, engine.Instances())
	assert.Zero(t, applied)
}

func TestQueriesOnAbsentEffect(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	assert.False(t, engine.HasEffect("unknown"))
	assert.Zero(t, engine.StackCount("unknown"))

	var nilEngine *Engine
	assert.Zero(t, nilEngine.StackCount(KindStrength))
}

func TestApplyPublishesStatusApplied(t *testing.T) {
	engine, _, bus, registry := newTestEngine(t)
	var got []rules.Event
	bus.SubscribeTyped(rules.EventStatusApplied, func(e rules.Event) { got = append(got, e) })

	engine.Apply(mustDef(t, registry, KindVulnerable), 2)

	require.Len(t, got, 1)
	assert.Equal(t, "player", got[0].PlayerID)
	assert.Equal(t, "vulnerable", got[0].Data)
	assert.Equal(t, 2, got[0].Amount)
}

func TestRemoveAndClear(t *testing.T) {
	engine, _, bus, registry := newTestEngine(t)
	var removed []string
	bus.SubscribeTyped(rules.EventStatusRemoved, func(e rules.Event) { removed = append(removed, e.Data) })

	engine.Apply(mustDef(t, registry, KindStrength), 2)
	engine.Apply(mustDef(t, registry, KindWeak), 2)
	engine.Apply(mustDef(t, registry, KindPoison), 4)
	engine.Apply(mustDef(t, registry, KindDexterity), 1)

	engine.Remove(KindDexterity)
	assert.False(t, engine.HasEffect(KindDexterity))
	engine.Remove(KindDexterity)

	engine.ClearDebuffs()
	assert.True(t, engine.HasEffect(KindStrength))
	assert.False(t, engine.HasEffect(KindWeak))
	assert.False(t, engine.HasEffect(KindPoison))

	engine.ClearAll()
	assert.Empty(t, engine.Instances())
	assert.Equal(t, []string{"dexterity", "weak", "poison", "strength"}, removed)
}

func TestTriggerPoisonDamagesThenDecrements(t *testing.T) {
	engine, owner, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindPoison), 3)

	results := engine.Trigger(TimingTurnEnd)
	require.Len(t, results, 1)
	assert.Equal(t, TriggerResult{Kind: KindPoison, Stacks: 3, Amount: 3}, results[0])
	assert.Equal(t, []int{3}, owner.damage)
	assert.Equal(t, 2, engine.StackCount(KindPoison))

	engine.Trigger(TimingTurnEnd)
	engine.Trigger(TimingTurnEnd)
	assert.Equal(t, []int{3, 2, 1}, owner.damage)
	assert.False(t, engine.HasEffect(KindPoison), "poison at zero stacks is removed")
}

func TestTriggerRegenerationHealsThenDecrements(t *testing.T) {
	engine, owner, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindRegeneration), 2)

	engine.Trigger(TimingTurnEnd)
	assert.Equal(t, []int{2}, owner.healing)
	assert.Equal(t, 1, engine.StackCount(KindRegeneration))
}

func TestTriggerIgnoresOtherTimingsAndPassiveKinds(t *testing.T) {
	engine, owner, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindPoison), 3)
	engine.Apply(mustDef(t, registry, KindStrength), 2)

	assert.Empty(t, engine.Trigger(TimingTurnStart))
	assert.Empty(t, engine.Trigger(TimingPassive))
	assert.Empty(t, owner.damage)
	assert.Equal(t, 3, engine.StackCount(KindPoison))
	assert.Equal(t, 2, engine.StackCount(KindStrength))
}

func TestTriggerUsesDefinitionTiming(t *testing.T) {
	engine, owner, _, _ := newTestEngine(t)
	startPoison := &Definition{Kind: KindPoison, Debuff: true, Decay: DecayDuration, Timing: TimingTurnStart}
	engine.Apply(startPoison, 2)

	assert.Empty(t, engine.Trigger(TimingTurnEnd))
	engine.Trigger(TimingTurnStart)
	assert.Equal(t, []int{2}, owner.damage)
}

func TestTickDurations(t *testing.T) {
	engine, _, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindWeak), 1)
	engine.Apply(mustDef(t, registry, KindVulnerable), 2)
	engine.Apply(mustDef(t, registry, KindStrength), 3)

	engine.TickDurations()

	assert.False(t, engine.HasEffect(KindWeak), "duration instance at 1 stack is removed")
	assert.Equal(t, 1, engine.StackCount(KindVulnerable))
	assert.Equal(t, 3, engine.StackCount(KindStrength), "intensity is untouched")
}

func TestTurnEndDoesNotDoubleDecrementPoison(t *testing.T) {
	engine, _, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindPoison), 3)
	engine.Apply(mustDef(t, registry, KindRegeneration), 3)
	engine.Apply(mustDef(t, registry, KindFrail), 3)

	engine.Trigger(TimingTurnEnd)
	engine.TickDurations()

	assert.Equal(t, 2, engine.StackCount(KindPoison))
	assert.Equal(t, 2, engine.StackCount(KindRegeneration))
	assert.Equal(t, 2, engine.StackCount(KindFrail))
}

func TestTickDurationsDecaysUntriggeredInstances(t *testing.T) {
	engine, owner, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindPoison), 1)
	engine.Apply(mustDef(t, registry, KindRegeneration), 2)

	engine.TickDurations()

	assert.False(t, engine.HasEffect(KindPoison), "duration poison at 1 stack is removed")
	assert.Equal(t, 1, engine.StackCount(KindRegeneration))
	assert.Empty(t, owner.damage)
	assert.Empty(t, owner.healing)
}

func TestTickDurationsSkipsOnlyUntilNextTick(t *testing.T) {
	engine, _, _, registry := newTestEngine(t)
	engine.Apply(mustDef(t, registry, KindPoison), 3)

	engine.Trigger(TimingTurnEnd)
	engine.TickDurations()
	require.Equal(t, 2, engine.StackCount(KindPoison))

	engine.TickDurations()
	assert.Equal(t, 1, engine.StackCount(KindPoison))
}

func TestPoisonOnAnotherTimingStillExpires(t *testing.T) {
	engine, owner, _, _ := newTestEngine(t)
	playedPoison := &Definition{Kind: KindPoison, Debuff: true, Decay: DecayDuration, Timing: TimingOnCardPlayed}
	engine.Apply(playedPoison, 1)

	engine.Trigger(TimingTurnEnd)
	engine.TickDurations()

	assert.Empty(t, owner.damage)
	assert.False(t, engine.HasEffect(KindPoison))
}

func TestCustomKindStacksAndDecays(t *testing.T) {
	engine, owner, _, _ := newTestEngine(t)
	burn := &Definition{Kind: "burn", Debuff: true, Decay: DecayDuration, Timing: TimingTurnEnd}

	engine.Apply(burn, 2)
	assert.Empty(t, engine.Trigger(TimingTurnEnd), "no built-in behavior for custom kinds")
	assert.Empty(t, owner.damage)

	engine.TickDurations()
	assert.Equal(t, 1, engine.StackCount("burn"))
}

func TestReentrantApplyDuringTrigger(t *testing.T) {
	registry := NewDefaultRegistry()
	var engine *Engine
	owner := &reentrantCombatant{onDamage: func() {
		engine.Apply(mustDef(t, registry, KindPoison), 5)
	}}
	engine = NewEngine(owner, Options{Logger: zaptest.NewLogger(t)})
	engine.Apply(mustDef(t, registry, KindPoison), 2)

	engine.Trigger(TimingTurnEnd)
	assert.Equal(t, 6, engine.StackCount(KindPoison))
}

type reentrantCombatant struct {
	onDamage func()
}

func (r *reentrantCombatant) ID() string { return "reentrant" }
func (r *reentrantCombatant) TakeDamage(amount int) int {
	r.onDamage()
	return amount
}
func (r *reentrantCombatant) Heal(amount int) int { return amount }
