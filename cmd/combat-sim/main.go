package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/deckforge/combat-core-go/internal/config"
	"github.com/deckforge/combat-core-go/internal/content"
	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/combat"
	"github.com/deckforge/combat-core-go/internal/game/rng"
	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/deckforge/combat-core-go/internal/game/watchers"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	seedFlag   = flag.Uint64("seed", 0, "override combat.seed (0 keeps the configured seed)")
	encounter  = flag.String("encounter", "", "override content.encounter")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *seedFlag != 0 {
		cfg.Combat.Seed = *seedFlag
	}
	if *encounter != "" {
		cfg.Content.Encounter = *encounter
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting combat simulation",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Uint64("seed", cfg.Combat.Seed),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	pack, err := content.Load(cfg.Content.Path)
	if err != nil {
		return err
	}
	enemies, err := pack.Encounter(cfg.Content.Encounter)
	if err != nil {
		return err
	}

	bus := rules.NewEventBus()
	registry := rules.NewWatcherRegistry()
	stats := watchers.NewCombatStats(registry)
	registry.Attach(bus)
	defer registry.Detach()

	session, err := combat.NewSession(combat.Options{
		ID:            fmt.Sprintf("sim-%d", cfg.Combat.Seed),
		Player:        combat.PlayerSetup{ID: "player", Name: "Player", MaxHP: cfg.Combat.PlayerMaxHP},
		Deck:          pack.StarterDeck,
		Enemies:       enemies,
		Registry:      pack.Statuses,
		RNG:           rng.NewSeeded(cfg.Combat.Seed),
		Bus:           bus,
		Logger:        logger,
		EnergyPerTurn: cfg.Combat.EnergyPerTurn,
		DrawPerTurn:   cfg.Combat.DrawPerTurn,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if err := session.Start(); err != nil {
		return err
	}

	for !session.IsOver() {
		if cfg.Combat.MaxTurns > 0 && session.Turn() > cfg.Combat.MaxTurns {
			logger.Warn("turn limit reached", zap.Int("max_turns", cfg.Combat.MaxTurns))
			break
		}
		if err := playTurn(session, logger); err != nil {
			return err
		}
		if session.IsOver() {
			break
		}
		if err := session.EndTurn(); err != nil {
			return fmt.Errorf("end turn %d: %w", session.Turn(), err)
		}
	}

	fingerprint := session.Fingerprint()
	session.End()

	player := session.Player()
	summary := stats(player.ID())
	logger.Info("combat finished",
		zap.String("outcome", session.Outcome().String()),
		zap.Int("turns", session.Turn()),
		zap.Int("player_hp", player.HP()),
		zap.Int("player_max_hp", player.MaxHP()),
		zap.Int("cards_drawn", summary.CardsDrawn),
		zap.Int("cards_discarded", summary.CardsDiscarded),
		zap.Int("damage_dealt", summary.DamageDealt),
		zap.String("fingerprint", fingerprint),
	)
	for _, e := range session.Enemies() {
		enemyStats := stats(e.ID())
		logger.Info("enemy summary",
			zap.String("enemy_id", e.ID()),
			zap.Int("hp", e.HP()),
			zap.Int("damage_dealt", enemyStats.DamageDealt),
			zap.Int("status_stacks_received", enemyStats.StatusStacks),
		)
	}
	return nil
}

// playTurn plays affordable cards in hand order at the weakest living enemy
// until nothing more can be played.
func playTurn(session *combat.Session, logger *zap.Logger) error {
	for !session.IsOver() {
		playable := session.PlayableCards()
		if len(playable) == 0 {
			return nil
		}
		card := playable[0]
		target := weakestEnemy(session)
		err := session.PlayCard(card, target)
		switch {
		case err == nil:
		case errors.Is(err, combat.ErrCombatOver):
			return nil
		case errors.Is(err, combat.ErrInvalidTarget), errors.Is(err, combat.ErrNotEnoughEnergy):
			return fmt.Errorf("auto-play chose an illegal play %s: %w", describe(card), err)
		default:
			// Partially resolved plays still count; keep going.
			logger.Warn("card resolved with error", zap.String("card", describe(card)), zap.Error(err))
		}
	}
	return nil
}

func weakestEnemy(session *combat.Session) int {
	best := -1
	for i, e := range session.Enemies() {
		if !e.IsAlive() {
			continue
		}
		if best < 0 || e.HP() < session.Enemies()[best].HP() {
			best = i
		}
	}
	return best
}

func describe(card *cards.Instance) string {
	if card.Upgraded {
		return card.DefinitionID() + "+"
	}
	return card.DefinitionID()
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
