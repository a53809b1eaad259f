// Package effects resolves card and enemy-move effect descriptors against a
// capability interface supplied by the combat session.
package effects

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/status"
)

var (
	// ErrUnsupportedTarget is returned when a descriptor declares a target
	// type its effect cannot resolve against, such as damaging Self.
	ErrUnsupportedTarget = errors.New("unsupported target for effect")
	// ErrUnknownEffect is returned for a descriptor type the executor does not know.
	ErrUnknownEffect = errors.New("unknown effect")
	// ErrUnknownStatus is returned when ApplyStatus names an unregistered kind.
	ErrUnknownStatus = errors.New("unknown status kind")
)

// ExecutionContext is the set of capabilities an effect may invoke. The
// source is the combatant that played the card or took the move; the target
// is the enemy chosen for single-target effects.
type ExecutionContext interface {
	DamageTarget(amount int) error
	DamageAllEnemies(amount int)
	GainBlock(amount int)
	DrawCards(count int)
	HealSource(amount int)
	HealTarget(amount int) error
	ApplyStatusToSource(def *status.Definition, stacks int)
	ApplyStatusToTarget(def *status.Definition, stacks int) error
	ApplyStatusToAllEnemies(def *status.Definition, stacks int)
	GainEnergy(amount int)
	DiscardCards(count int)
	ExhaustCards(count int)

	// RetargetRandomEnemy picks a random living enemy as the current target.
	// It reports false when no enemy is left to pick.
	RetargetRandomEnemy() bool
}

// Options configures an Executor.
type Options struct {
	Registry *status.Registry
	Logger   *zap.Logger
}

// Executor resolves effect descriptors in declaration order.
type Executor struct {
	registry *status.Registry
	logger   *zap.Logger
}

// NewExecutor creates an executor. A nil registry resolves ApplyStatus
// against the built-in status definitions.
func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = status.NewDefaultRegistry()
	}
	return &Executor{registry: registry, logger: logger}
}

// Execute resolves each effect against ec. Resolution stops at the first
// failing effect; effects already resolved are not rolled back.
func (x *Executor) Execute(ec ExecutionContext, effs []cards.Effect) error {
	for i, eff := range effs {
		if err := x.resolve(ec, eff); err != nil {
			x.logger.Warn("effect failed",
				zap.Int("index", i),
				zap.String("effect", effectName(eff)),
				zap.Error(err),
			)
			return fmt.Errorf("effect %d (%s) failed: %w", i, effectName(eff), err)
		}
	}
	return nil
}

func (x *Executor) resolve(ec ExecutionContext, eff cards.Effect) error {
	switch e := eff.(type) {
	case cards.Damage:
		return x.resolveDamage(ec, e)
	case cards.Block:
		ec.GainBlock(e.Amount)
		return nil
	case cards.Draw:
		ec.DrawCards(e.Count)
		return nil
	case cards.Heal:
		return x.resolveHeal(ec, e)
	case cards.ApplyStatus:
		return x.resolveApplyStatus(ec, e)
	case cards.GainEnergy:
		ec.GainEnergy(e.Amount)
		return nil
	case cards.Discard:
		ec.DiscardCards(e.Count)
		return nil
	case cards.Exhaust:
		ec.ExhaustCards(e.Count)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEffect, eff)
	}
}

func (x *Executor) resolveDamage(ec ExecutionContext, e cards.Damage) error {
	for hit := 0; hit < e.HitCount(); hit++ {
		switch e.Target {
		case cards.TargetSingleEnemy:
			if err := ec.DamageTarget(e.Amount); err != nil {
				return err
			}
		case cards.TargetAllEnemies:
			ec.DamageAllEnemies(e.Amount)
		case cards.TargetRandomEnemy:
			// Each hit of a random-target attack picks again.
			if !ec.RetargetRandomEnemy() {
				x.logger.Debug("no enemy left for random damage", zap.Int("hit", hit))
				return nil
			}
			if err := ec.DamageTarget(e.Amount); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: damage to %s", ErrUnsupportedTarget, e.Target)
		}
	}
	return nil
}

func (x *Executor) resolveHeal(ec ExecutionContext, e cards.Heal) error {
	switch e.Target {
	case cards.TargetSelf:
		ec.HealSource(e.Amount)
		return nil
	case cards.TargetSingleEnemy:
		return ec.HealTarget(e.Amount)
	case cards.TargetRandomEnemy:
		if !ec.RetargetRandomEnemy() {
			return nil
		}
		return ec.HealTarget(e.Amount)
	default:
		return fmt.Errorf("%w: heal to %s", ErrUnsupportedTarget, e.Target)
	}
}

func (x *Executor) resolveApplyStatus(ec ExecutionContext, e cards.ApplyStatus) error {
	def, ok := x.registry.Get(status.Kind(e.Status))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, e.Status)
	}
	switch e.Target {
	case cards.TargetSelf:
		ec.ApplyStatusToSource(def, e.Stacks)
	case cards.TargetSingleEnemy:
		return ec.ApplyStatusToTarget(def, e.Stacks)
	case cards.TargetAllEnemies:
		ec.ApplyStatusToAllEnemies(def, e.Stacks)
	case cards.TargetRandomEnemy:
		if !ec.RetargetRandomEnemy() {
			return nil
		}
		return ec.ApplyStatusToTarget(def, e.Stacks)
	default:
		return fmt.Errorf("%w: status to %s", ErrUnsupportedTarget, e.Target)
	}
	return nil
}

func effectName(eff cards.Effect) string {
	if eff == nil {
		return "nil"
	}
	return eff.Name()
}
