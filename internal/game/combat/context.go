package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/deckforge/combat-core-go/internal/game/status"
)

// actionContext resolves effects for one card play or enemy move. The
// source is the acting combatant and opponents lists who it may target.
type actionContext struct {
	s         *Session
	source    *Combatant
	target    *Combatant
	opponents func() []*Combatant

	// playing is the card being resolved; it stays in hand until it is
	// disposed of and is never picked by random discard or exhaust.
	playing *cards.Instance
	// hasPiles is false for enemies, which draw no cards and spend no energy.
	hasPiles bool
}

func (s *Session) playerContext(card *cards.Instance, target *Combatant) *actionContext {
	return &actionContext{
		s:      s,
		source: s.player,
		target: target,
		opponents: func() []*Combatant {
			living := s.LivingEnemies()
			out := make([]*Combatant, len(living))
			for i, e := range living {
				out[i] = e.Combatant
			}
			return out
		},
		playing:  card,
		hasPiles: true,
	}
}

func (s *Session) enemyContext(e *Enemy) *actionContext {
	return &actionContext{
		s:      s,
		source: e.Combatant,
		target: s.player,
		opponents: func() []*Combatant {
			if !s.player.IsAlive() {
				return nil
			}
			return []*Combatant{s.player}
		},
	}
}

// attack runs the damage pipeline from source to target: strength and weak
// on the way out, vulnerable on the way in, then block. When HP is lost the
// source's on-damage-dealt and the target's on-damage-taken statuses resolve.
func (a *actionContext) attack(target *Combatant, base int) {
	if !target.IsAlive() {
		return
	}
	amount := status.IncomingDamage(status.OutgoingDamage(base, a.source.Statuses()), target.Statuses())
	lost := target.Hit(amount)
	evt := rules.NewEventWithAmount(rules.EventDamageDealt, target.ID(), a.source.ID(), a.source.ID(), lost)
	evt.Metadata["attempted"] = fmt.Sprint(amount)
	a.s.bus.Publish(evt)
	if lost <= 0 {
		return
	}
	a.source.Statuses().Trigger(status.TimingOnDamageDealt)
	target.Statuses().Trigger(status.TimingOnDamageTaken)
}

func (a *actionContext) DamageTarget(amount int) error {
	if a.target == nil {
		return ErrInvalidTarget
	}
	a.attack(a.target, amount)
	return nil
}

func (a *actionContext) DamageAllEnemies(amount int) {
	for _, opp := range a.opponents() {
		a.attack(opp, amount)
	}
}

func (a *actionContext) GainBlock(amount int) {
	before := a.source.Block()
	a.source.GainBlock(status.BlockGain(amount, a.source.Statuses()))
	if a.source.Block() > before {
		a.source.Statuses().Trigger(status.TimingOnBlock)
	}
}

func (a *actionContext) DrawCards(count int) {
	if !a.hasPiles {
		return
	}
	a.s.piles.Draw(count)
}

func (a *actionContext) HealSource(amount int) {
	a.source.Heal(amount)
}

func (a *actionContext) HealTarget(amount int) error {
	if a.target == nil {
		return ErrInvalidTarget
	}
	a.target.Heal(amount)
	return nil
}

func (a *actionContext) ApplyStatusToSource(def *status.Definition, stacks int) {
	a.source.Statuses().Apply(def, stacks)
}

func (a *actionContext) ApplyStatusToTarget(def *status.Definition, stacks int) error {
	if a.target == nil {
		return ErrInvalidTarget
	}
	if a.target.IsAlive() {
		a.target.Statuses().Apply(def, stacks)
	}
	return nil
}

func (a *actionContext) ApplyStatusToAllEnemies(def *status.Definition, stacks int) {
	for _, opp := range a.opponents() {
		opp.Statuses().Apply(def, stacks)
	}
}

func (a *actionContext) GainEnergy(amount int) {
	if !a.hasPiles || amount <= 0 {
		return
	}
	a.s.energy += amount
	a.s.bus.Publish(rules.NewEventWithAmount(rules.EventEnergyGained, a.source.ID(), "", a.source.ID(), amount))
}

func (a *actionContext) DiscardCards(count int) {
	a.removeRandomFromHand(count, a.s.piles.Discard)
}

func (a *actionContext) ExhaustCards(count int) {
	a.removeRandomFromHand(count, a.s.piles.Exhaust)
}

func (a *actionContext) removeRandomFromHand(count int, move func(*cards.Instance)) {
	if !a.hasPiles {
		return
	}
	for i := 0; i < count; i++ {
		candidates := a.handExceptPlaying()
		if len(candidates) == 0 {
			return
		}
		move(candidates[a.s.rng.IntN(len(candidates))])
	}
}

func (a *actionContext) handExceptPlaying() []*cards.Instance {
	hand := a.s.piles.Hand()
	out := hand[:0]
	for _, c := range hand {
		if c != a.playing {
			out = append(out, c)
		}
	}
	return out
}

func (a *actionContext) RetargetRandomEnemy() bool {
	living := a.opponents()
	if len(living) == 0 {
		a.target = nil
		return false
	}
	a.target = living[a.s.rng.IntN(len(living))]
	a.s.logger.Debug("random target chosen",
		zap.String("source_id", a.source.ID()),
		zap.String("target_id", a.target.ID()),
	)
	return true
}
