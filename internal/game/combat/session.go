// Package combat orchestrates one fight: the player's piles and energy, the
// enemies' intents and the turn cycle that ties them together.
package combat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/effects"
	"github.com/deckforge/combat-core-go/internal/game/piles"
	"github.com/deckforge/combat-core-go/internal/game/rng"
	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/deckforge/combat-core-go/internal/game/status"
)

// DefaultEnergyPerTurn is the energy the player starts each turn with.
const DefaultEnergyPerTurn = 3

var (
	ErrCardNotInHand   = errors.New("card is not in hand")
	ErrNotEnoughEnergy = errors.New("not enough energy")
	ErrInvalidTarget   = errors.New("invalid target")
	ErrCombatOver      = errors.New("combat is over")
	ErrNotPlayerTurn   = errors.New("not the player's action step")
	ErrAlreadyStarted  = errors.New("combat already started")
)

// Outcome is the state of a combat from the player's point of view.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ONGOING"
	case OutcomeVictory:
		return "VICTORY"
	case OutcomeDefeat:
		return "DEFEAT"
	case OutcomeAbandoned:
		return "ABANDONED"
	default:
		return fmt.Sprintf("OUTCOME_%d", int(o))
	}
}

// PlayerSetup describes the player entering combat.
type PlayerSetup struct {
	ID    string
	Name  string
	MaxHP int
	// HP, when positive, starts the player below max HP.
	HP int
}

// Options configures a Session.
type Options struct {
	// ID names the session in logs and seeds card instance ids. A random id
	// is generated when empty.
	ID      string
	Player  PlayerSetup
	Deck    []*cards.Definition
	Enemies []*EnemyDefinition

	Registry *status.Registry
	RNG      rng.Source
	Bus      *rules.EventBus
	Logger   *zap.Logger

	EnergyPerTurn int
	DrawPerTurn   int
}

// Session is one combat between the player and a group of enemies.
// A session is single-threaded: callers resolve one action at a time.
type Session struct {
	id       string
	player   *Combatant
	enemies  []*Enemy
	deck     []*cards.Definition
	piles    *piles.Manager
	executor *effects.Executor
	registry *status.Registry
	turns    *rules.TurnManager
	rng      rng.Source
	bus      *rules.EventBus
	logger   *zap.Logger

	energyPerTurn int
	drawPerTurn   int
	energy        int
	started       bool
	outcome       Outcome
}

// NewSession validates opts and builds a session ready to Start.
func NewSession(opts Options) (*Session, error) {
	if opts.Player.MaxHP <= 0 {
		return nil, fmt.Errorf("player max HP must be positive, got %d", opts.Player.MaxHP)
	}
	if len(opts.Enemies) == 0 {
		return nil, fmt.Errorf("at least one enemy required")
	}
	for i, def := range opts.Enemies {
		if def == nil || def.MaxHP <= 0 {
			return nil, fmt.Errorf("enemy %d: invalid definition", i)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger = logger.With(zap.String("session_id", id))

	src := opts.RNG
	if src == nil {
		src = rng.NewSeeded(0)
	}
	registry := opts.Registry
	if registry == nil {
		registry = status.NewDefaultRegistry()
	}
	energy := opts.EnergyPerTurn
	if energy <= 0 {
		energy = DefaultEnergyPerTurn
	}
	draw := opts.DrawPerTurn
	if draw <= 0 {
		draw = piles.DefaultDrawCount
	}

	playerID := opts.Player.ID
	if playerID == "" {
		playerID = "player"
	}
	player := NewCombatant(playerID, opts.Player.Name, opts.Player.MaxHP, opts.Bus, logger)
	if opts.Player.HP > 0 && opts.Player.HP < opts.Player.MaxHP {
		player.hp = opts.Player.HP
	}

	s := &Session{
		id:       id,
		player:   player,
		deck:     opts.Deck,
		registry: registry,
		turns:    rules.NewTurnManager(),
		rng:      src,
		bus:      opts.Bus,
		logger:   logger,
		piles: piles.NewManager(piles.Options{
			OwnerID:   playerID,
			RNG:       src,
			Bus:       opts.Bus,
			Logger:    logger,
			Namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)),
		}),
		executor:      effects.NewExecutor(effects.Options{Registry: registry, Logger: logger}),
		energyPerTurn: energy,
		drawPerTurn:   draw,
	}
	for i, def := range opts.Enemies {
		enemyID := fmt.Sprintf("%s-%d", def.ID, i+1)
		s.enemies = append(s.enemies, newEnemy(enemyID, def, src, opts.Bus, logger))
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Player returns the player combatant.
func (s *Session) Player() *Combatant { return s.player }

// Enemies returns every enemy, dead or alive, in encounter order.
func (s *Session) Enemies() []*Enemy {
	out := make([]*Enemy, len(s.enemies))
	copy(out, s.enemies)
	return out
}

// LivingEnemies returns the enemies still alive, in encounter order.
func (s *Session) LivingEnemies() []*Enemy {
	var out []*Enemy
	for _, e := range s.enemies {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// Piles returns the player's pile manager.
func (s *Session) Piles() *piles.Manager { return s.piles }

// Energy returns the player's remaining energy this turn.
func (s *Session) Energy() int { return s.energy }

// Turn returns the current turn number.
func (s *Session) Turn() int { return s.turns.TurnNumber() }

// Phase returns the side currently acting.
func (s *Session) Phase() rules.Phase { return s.turns.CurrentPhase() }

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome { return s.outcome }

// IsOver reports whether the combat has ended for any reason.
func (s *Session) IsOver() bool { return s.outcome != OutcomeOngoing }

// Start builds the player's deck, declares the first enemy intents and
// begins the player's first turn.
func (s *Session) Start() error {
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.piles.InitializeDeck(s.deck)
	s.bus.Publish(rules.NewEventWithAmount(rules.EventCombatStarted, "", "", s.player.ID(), len(s.enemies)))
	s.logger.Info("combat started",
		zap.Int("deck_size", len(s.deck)),
		zap.Int("enemies", len(s.enemies)),
	)

	s.declareIntents()
	s.startPlayerTurn()
	return nil
}

// PlayCard plays card from the hand against the enemy at targetIndex. The
// index is only checked when one of the card's effects targets a single
// enemy. Effects resolve in order; if one fails, the ones before it stand,
// the card is still disposed of and the error is returned.
func (s *Session) PlayCard(card *cards.Instance, targetIndex int) error {
	if s.IsOver() {
		return ErrCombatOver
	}
	if !s.started || s.turns.CurrentPhase() != rules.PhasePlayer || s.turns.CurrentStep() != rules.StepAction {
		return ErrNotPlayerTurn
	}
	if !s.piles.InHand(card) {
		return ErrCardNotInHand
	}
	cost := card.Cost()
	if cost > s.energy {
		return fmt.Errorf("%w: card %s costs %d, have %d", ErrNotEnoughEnergy, card.DefinitionID(), cost, s.energy)
	}

	var target *Combatant
	if needsTarget(card.Effects()) {
		if targetIndex < 0 || targetIndex >= len(s.enemies) || !s.enemies[targetIndex].IsAlive() {
			return fmt.Errorf("%w: enemy index %d", ErrInvalidTarget, targetIndex)
		}
		target = s.enemies[targetIndex].Combatant
	}

	s.energy -= cost
	evt := rules.NewEventWithAmount(rules.EventCardPlayed, card.ID, s.player.ID(), s.player.ID(), cost)
	evt.Data = card.DefinitionID()
	if target != nil {
		evt.Metadata["target_id"] = target.ID()
	}
	s.bus.Publish(evt)
	s.logger.Debug("card played",
		zap.String("card", card.DefinitionID()),
		zap.Int("cost", cost),
		zap.Int("energy_left", s.energy),
	)

	err := s.executor.Execute(s.playerContext(card, target), card.Effects())
	s.player.Statuses().Trigger(status.TimingOnCardPlayed)
	s.piles.ResolvePlayed(card)
	s.checkOutcome()
	if err != nil {
		return fmt.Errorf("play %s: %w", card.DefinitionID(), err)
	}
	return nil
}

// PlayableCards returns the cards in hand the player can currently afford.
func (s *Session) PlayableCards() []*cards.Instance {
	var out []*cards.Instance
	for _, c := range s.piles.Hand() {
		if c.Cost() <= s.energy {
			out = append(out, c)
		}
	}
	return out
}

// EndTurn ends the player's turn, runs the enemy turn and starts the next
// player turn, stopping as soon as the combat is decided.
func (s *Session) EndTurn() error {
	if s.IsOver() {
		return ErrCombatOver
	}
	if !s.started || s.turns.CurrentPhase() != rules.PhasePlayer || s.turns.CurrentStep() != rules.StepAction {
		return ErrNotPlayerTurn
	}

	s.turns.AdvanceTo(rules.PhasePlayer, rules.StepTurnEnd)
	s.endTurnFor(s.player)
	s.piles.DiscardHand()
	if s.checkOutcome() {
		return nil
	}

	s.turns.AdvanceTo(rules.PhaseEnemy, rules.StepTurnStart)
	for _, e := range s.LivingEnemies() {
		s.startTurnFor(e.Combatant)
	}
	if s.checkOutcome() {
		return nil
	}

	s.turns.AdvanceTo(rules.PhaseEnemy, rules.StepAction)
	for _, e := range s.LivingEnemies() {
		if err := s.resolveIntent(e); err != nil {
			s.logger.Warn("enemy move failed", zap.String("enemy_id", e.ID()), zap.Error(err))
		}
		if s.checkOutcome() {
			return nil
		}
	}

	s.turns.AdvanceTo(rules.PhaseEnemy, rules.StepTurnEnd)
	for _, e := range s.LivingEnemies() {
		s.endTurnFor(e.Combatant)
	}
	if s.checkOutcome() {
		return nil
	}

	s.turns.AdvanceTo(rules.PhasePlayer, rules.StepTurnStart)
	s.declareIntents()
	s.startPlayerTurn()
	return nil
}

// End tears the combat down. Piles and statuses are discarded; an undecided
// combat is marked abandoned. Calling End more than once is harmless.
func (s *Session) End() {
	if s.outcome == OutcomeOngoing {
		s.finish(OutcomeAbandoned)
	}
	s.piles.Clear()
	s.player.Statuses().ClearAll()
	for _, e := range s.enemies {
		e.Statuses().ClearAll()
	}
}

func (s *Session) startPlayerTurn() {
	s.startTurnFor(s.player)
	if s.checkOutcome() {
		return
	}
	s.energy = s.energyPerTurn
	s.piles.Draw(s.drawPerTurn)
	s.turns.AdvanceTo(rules.PhasePlayer, rules.StepAction)
}

// startTurnFor resets block and resolves turn-start statuses.
func (s *Session) startTurnFor(c *Combatant) {
	c.ResetBlock()
	s.bus.Publish(rules.NewEventWithAmount(rules.EventTurnStarted, c.ID(), "", c.ID(), s.turns.TurnNumber()))
	c.Statuses().Trigger(status.TimingTurnStart)
}

// endTurnFor resolves turn-end statuses, then ages duration statuses.
// Statuses that already lost a stack by triggering this turn are not aged
// again.
func (s *Session) endTurnFor(c *Combatant) {
	c.Statuses().Trigger(status.TimingTurnEnd)
	c.Statuses().TickDurations()
	s.bus.Publish(rules.NewEventWithAmount(rules.EventTurnEnded, c.ID(), "", c.ID(), s.turns.TurnNumber()))
}

func (s *Session) declareIntents() {
	first := s.turns.IsFirstTurn()
	for _, e := range s.LivingEnemies() {
		next := e.declareIntent(first)
		evt := rules.NewEvent(rules.EventIntentDeclared, e.ID(), e.ID(), e.ID())
		evt.Data = next.String()
		s.bus.Publish(evt)
		s.logger.Debug("intent declared",
			zap.String("enemy_id", e.ID()),
			zap.String("intent", next.String()),
			zap.Int("consecutive", e.history.Consecutive),
		)
	}
}

func (s *Session) resolveIntent(e *Enemy) error {
	evt := rules.NewEvent(rules.EventIntentResolved, s.player.ID(), e.ID(), e.ID())
	evt.Data = e.Intent().String()
	s.bus.Publish(evt)

	move := e.move()
	if len(move) == 0 {
		s.logger.Debug("enemy has no move for intent",
			zap.String("enemy_id", e.ID()),
			zap.String("intent", e.Intent().String()),
		)
		return nil
	}
	return s.executor.Execute(s.enemyContext(e), move)
}

// checkOutcome records victory or defeat and reports whether the combat is over.
func (s *Session) checkOutcome() bool {
	if s.outcome != OutcomeOngoing {
		return true
	}
	switch {
	case !s.player.IsAlive():
		s.finish(OutcomeDefeat)
	case len(s.LivingEnemies()) == 0:
		s.finish(OutcomeVictory)
	}
	return s.outcome != OutcomeOngoing
}

func (s *Session) finish(outcome Outcome) {
	s.outcome = outcome
	evt := rules.NewEventWithAmount(rules.EventCombatEnded, "", "", s.player.ID(), s.turns.TurnNumber())
	evt.Data = outcome.String()
	s.bus.Publish(evt)
	s.logger.Info("combat ended",
		zap.String("outcome", outcome.String()),
		zap.Int("turn", s.turns.TurnNumber()),
		zap.Int("player_hp", s.player.HP()),
	)
}

func needsTarget(effs []cards.Effect) bool {
	for _, eff := range effs {
		switch e := eff.(type) {
		case cards.Damage:
			if e.Target == cards.TargetSingleEnemy {
				return true
			}
		case cards.Heal:
			if e.Target == cards.TargetSingleEnemy {
				return true
			}
		case cards.ApplyStatus:
			if e.Target == cards.TargetSingleEnemy {
				return true
			}
		}
	}
	return false
}
