package combat

import (
	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/intent"
	"github.com/deckforge/combat-core-go/internal/game/rng"
	"github.com/deckforge/combat-core-go/internal/game/rules"
)

// EnemyDefinition is the authored description of an enemy.
type EnemyDefinition struct {
	ID    string
	Name  string
	MaxHP int
	AI    intent.Config

	// Moves maps each intent to the effects resolved when the enemy acts on
	// it. Targets are seen from the enemy: SingleEnemy is the player.
	Moves map[intent.Kind][]cards.Effect
}

// Enemy is a live enemy in a combat.
type Enemy struct {
	*Combatant

	def      *EnemyDefinition
	selector *intent.Selector
	history  intent.History
	intent   intent.Kind
}

func newEnemy(id string, def *EnemyDefinition, src rng.Source, bus *rules.EventBus, logger *zap.Logger) *Enemy {
	return &Enemy{
		Combatant: NewCombatant(id, def.Name, def.MaxHP, bus, logger),
		def:       def,
		selector:  intent.NewSelector(def.AI, src, logger.With(zap.String("enemy_id", id))),
	}
}

// Definition returns the enemy's definition.
func (e *Enemy) Definition() *EnemyDefinition { return e.def }

// Intent returns the intent declared for the coming enemy turn.
func (e *Enemy) Intent() intent.Kind { return e.intent }

// History returns the enemy's intent history.
func (e *Enemy) History() intent.History { return e.history }

// declareIntent selects and records the next intent.
func (e *Enemy) declareIntent(isFirstTurn bool) intent.Kind {
	e.intent = e.selector.Choose(e.HealthRatio(), isFirstTurn, &e.history)
	return e.intent
}

// move returns the effects for the declared intent.
func (e *Enemy) move() []cards.Effect {
	return e.def.Moves[e.intent]
}
