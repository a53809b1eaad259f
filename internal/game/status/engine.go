package status

import (
	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/rules"
)

// Combatant is the capability a status engine needs from its owner.
type Combatant interface {
	ID() string
	// TakeDamage applies damage and returns the HP actually lost.
	TakeDamage(amount int) int
	// Heal restores HP and returns the amount actually restored.
	Heal(amount int) int
}

// Instance is a live stack of one status kind on one combatant.
type Instance struct {
	Definition *Definition
	Stacks     int
}

// Kind returns the instance's status kind.
func (i Instance) Kind() Kind {
	return i.Definition.Kind
}

// TriggerResult reports one built-in behavior resolved by Trigger.
type TriggerResult struct {
	Kind   Kind
	Stacks int // stacks before the trigger resolved
	Amount int // damage dealt or HP healed
}

// arena is an ordered set of instances indexed by kind. It is never mutated
// while iterated; removals build a new arena.
type arena struct {
	instances []Instance
	index     map[Kind]int
}

func newArena(instances []Instance) arena {
	a := arena{
		instances: instances,
		index:     make(map[Kind]int, len(instances)),
	}
	for i, inst := range instances {
		a.index[inst.Kind()] = i
	}
	return a
}

func (a arena) filter(keep func(Instance) bool) arena {
	kept := make([]Instance, 0, len(a.instances))
	for _, inst := range a.instances {
		if keep(inst) {
			kept = append(kept, inst)
		}
	}
	return newArena(kept)
}

func (a arena) lookup(kind Kind) (Instance, bool) {
	idx, ok := a.index[kind]
	if !ok {
		return Instance{}, false
	}
	return a.instances[idx], true
}

// Options configures an Engine.
type Options struct {
	Bus    *rules.EventBus
	Logger *zap.Logger
}

// Engine owns the status effects of exactly one combatant.
type Engine struct {
	owner  Combatant
	bus    *rules.EventBus
	logger *zap.Logger
	arena  arena

	// decayed holds kinds that already lost a stack in Trigger since the
	// last TickDurations.
	decayed map[Kind]bool
}

// NewEngine creates an empty engine for owner.
func NewEngine(owner Combatant, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		owner:   owner,
		bus:     opts.Bus,
		arena:   newArena(nil),
		decayed: make(map[Kind]bool),
	}
	e.logger = logger.With(zap.String("owner_id", e.ownerID()))
	return e
}

func (e *Engine) ownerID() string {
	if e.owner == nil {
		return ""
	}
	return e.owner.ID()
}

// Apply adds stacks of def to the owner. Stacks of an existing kind are summed.
// A nil definition or non-positive stacks is ignored; the return value reports
// whether anything changed.
func (e *Engine) Apply(def *Definition, stacks int) bool {
	if def == nil || stacks <= 0 {
		e.logger.Debug("ignored status application",
			zap.Bool("nil_definition", def == nil),
			zap.Int("stacks", stacks),
		)
		return false
	}

	instances := make([]Instance, len(e.arena.instances), len(e.arena.instances)+1)
	copy(instances, e.arena.instances)
	if idx, ok := e.arena.index[def.Kind]; ok {
		instances[idx].Stacks += stacks
	} else {
		instances = append(instances, Instance{Definition: def, Stacks: stacks})
	}
	e.arena = newArena(instances)

	evt := rules.NewEventWithAmount(rules.EventStatusApplied, e.ownerID(), "", e.ownerID(), stacks)
	evt.Data = def.Kind.String()
	e.bus.Publish(evt)
	return true
}

// HasEffect reports whether the owner has any stacks of kind.
func (e *Engine) HasEffect(kind Kind) bool {
	return e.StackCount(kind) > 0
}

// StackCount returns the owner's stacks of kind, or 0 if absent.
func (e *Engine) StackCount(kind Kind) int {
	if e == nil {
		return 0
	}
	inst, ok := e.arena.lookup(kind)
	if !ok {
		return 0
	}
	return inst.Stacks
}

// Remove deletes the instance of kind, if present.
func (e *Engine) Remove(kind Kind) {
	e.removeWhere(func(inst Instance) bool { return inst.Kind() == kind })
}

// ClearAll removes every instance.
func (e *Engine) ClearAll() {
	e.removeWhere(func(Instance) bool { return true })
}

// ClearDebuffs removes every instance whose definition is a debuff.
func (e *Engine) ClearDebuffs() {
	e.removeWhere(func(inst Instance) bool { return inst.Definition.Debuff })
}

func (e *Engine) removeWhere(match func(Instance) bool) {
	var removed []Instance
	e.arena = e.arena.filter(func(inst Instance) bool {
		if match(inst) {
			removed = append(removed, inst)
			return false
		}
		return true
	})
	e.publishRemoved(removed)
}

// Trigger resolves the built-in behavior of every instance whose timing
// matches. Poison deals its stacks as damage to the owner and regeneration
// heals by its stacks; both then lose one stack. Other kinds are read by the
// damage and block calculations instead and do nothing here.
func (e *Engine) Trigger(timing TriggerTiming) []TriggerResult {
	snapshot := e.Instances()
	decrements := make(map[Kind]int)
	var results []TriggerResult

	for _, inst := range snapshot {
		if inst.Definition.Timing != timing || inst.Stacks <= 0 {
			continue
		}
		if e.owner == nil {
			continue
		}
		switch inst.Kind() {
		case KindPoison:
			dealt := e.owner.TakeDamage(inst.Stacks)
			results = append(results, TriggerResult{Kind: inst.Kind(), Stacks: inst.Stacks, Amount: dealt})
			decrements[inst.Kind()]++
		case KindRegeneration:
			healed := e.owner.Heal(inst.Stacks)
			results = append(results, TriggerResult{Kind: inst.Kind(), Stacks: inst.Stacks, Amount: healed})
			decrements[inst.Kind()]++
		}
	}

	if len(decrements) > 0 {
		e.decay(func(inst Instance) int { return decrements[inst.Kind()] })
		for kind := range decrements {
			e.decayed[kind] = true
		}
	}
	for _, res := range results {
		evt := rules.NewEventWithAmount(rules.EventStatusTriggered, e.ownerID(), "", e.ownerID(), res.Amount)
		evt.Data = res.Kind.String()
		evt.Metadata["timing"] = timing.String()
		e.bus.Publish(evt)
		e.logger.Debug("status triggered",
			zap.String("kind", res.Kind.String()),
			zap.String("timing", timing.String()),
			zap.Int("stacks", res.Stacks),
			zap.Int("amount", res.Amount),
		)
	}
	return results
}

// TickDurations removes one stack from every Duration-mode instance and drops
// those that reach zero. Intensity instances are untouched. An instance that
// already lost a stack in Trigger since the previous tick is skipped, so a
// turn never decays it twice.
func (e *Engine) TickDurations() {
	decayed := e.decayed
	e.decayed = make(map[Kind]bool)
	e.decay(func(inst Instance) int {
		if inst.Definition.Decay != DecayDuration || decayed[inst.Kind()] {
			return 0
		}
		return 1
	})
}

// decay subtracts amountFor(inst) stacks from each instance and removes
// instances left at zero, building a new arena.
func (e *Engine) decay(amountFor func(Instance) int) {
	current := e.arena.instances
	next := make([]Instance, 0, len(current))
	var expired []Instance
	for _, inst := range current {
		inst.Stacks -= amountFor(inst)
		if inst.Stacks <= 0 {
			inst.Stacks = 0
			expired = append(expired, inst)
			continue
		}
		next = append(next, inst)
	}
	e.arena = newArena(next)
	e.publishRemoved(expired)
}

func (e *Engine) publishRemoved(removed []Instance) {
	for _, inst := range removed {
		evt := rules.NewEvent(rules.EventStatusRemoved, e.ownerID(), "", e.ownerID())
		evt.Data = inst.Kind().String()
		e.bus.Publish(evt)
	}
}

// Instances returns a copy of the live instances in application order.
func (e *Engine) Instances() []Instance {
	out := make([]Instance, len(e.arena.instances))
	copy(out, e.arena.instances)
	return out
}
