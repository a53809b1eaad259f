package combat

import (
	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/deckforge/combat-core-go/internal/game/status"
)

// Combatant is one side of a fight: HP, block and its own status engine.
type Combatant struct {
	id    string
	name  string
	maxHP int
	hp    int
	block int

	statuses *status.Engine
	bus      *rules.EventBus
	logger   *zap.Logger
}

// NewCombatant creates a combatant at full health.
func NewCombatant(id, name string, maxHP int, bus *rules.EventBus, logger *zap.Logger) *Combatant {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Combatant{
		id:     id,
		name:   name,
		maxHP:  maxHP,
		hp:     maxHP,
		bus:    bus,
		logger: logger.With(zap.String("combatant_id", id)),
	}
	c.statuses = status.NewEngine(c, status.Options{Bus: bus, Logger: logger})
	return c
}

// ID implements status.Combatant.
func (c *Combatant) ID() string { return c.id }

// Name returns the display name.
func (c *Combatant) Name() string { return c.name }

// HP returns current hit points.
func (c *Combatant) HP() int { return c.hp }

// MaxHP returns maximum hit points.
func (c *Combatant) MaxHP() int { return c.maxHP }

// Block returns current block.
func (c *Combatant) Block() int { return c.block }

// Statuses returns the combatant's status engine.
func (c *Combatant) Statuses() *status.Engine { return c.statuses }

// IsAlive reports whether the combatant has HP left.
func (c *Combatant) IsAlive() bool { return c.hp > 0 }

// HealthRatio returns HP over max HP in [0, 1].
func (c *Combatant) HealthRatio() float64 {
	if c.maxHP <= 0 {
		return 0
	}
	return float64(c.hp) / float64(c.maxHP)
}

// TakeDamage removes HP directly, ignoring block, and returns the HP lost.
// Status damage such as poison lands here.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 || !c.IsAlive() {
		return 0
	}
	lost := min(amount, c.hp)
	c.hp -= lost
	if c.hp == 0 {
		c.logger.Info("combatant died")
		c.bus.Publish(rules.NewEvent(rules.EventCombatantDied, c.id, "", c.id))
	}
	return lost
}

// Hit applies attack damage: block absorbs first and the remainder is lost
// as HP. It returns the HP lost.
func (c *Combatant) Hit(amount int) int {
	if amount <= 0 || !c.IsAlive() {
		return 0
	}
	absorbed := min(amount, c.block)
	c.block -= absorbed
	return c.TakeDamage(amount - absorbed)
}

// Heal implements status.Combatant. Healing never exceeds max HP and the
// dead are not healed.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || !c.IsAlive() {
		return 0
	}
	healed := min(amount, c.maxHP-c.hp)
	c.hp += healed
	if healed > 0 {
		c.bus.Publish(rules.NewEventWithAmount(rules.EventHealed, c.id, "", c.id, healed))
	}
	return healed
}

// GainBlock adds block.
func (c *Combatant) GainBlock(amount int) {
	if amount <= 0 || !c.IsAlive() {
		return
	}
	c.block += amount
	c.bus.Publish(rules.NewEventWithAmount(rules.EventBlockGained, c.id, "", c.id, amount))
}

// ResetBlock clears block at the start of the combatant's turn.
func (c *Combatant) ResetBlock() {
	c.block = 0
}
