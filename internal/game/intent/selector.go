package intent

import (
	"go.uber.org/zap"

	"github.com/deckforge/combat-core-go/internal/game/rng"
)

// Selector picks intents for one enemy configuration.
type Selector struct {
	cfg    Config
	src    rng.Source
	logger *zap.Logger
}

// NewSelector creates a selector. cfg is expected to be normalized already;
// selection itself only relies on relative weights.
func NewSelector(cfg Config, src rng.Source, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{cfg: cfg, src: src, logger: logger}
}

// Config returns the selector's configuration.
func (s *Selector) Config() Config {
	return s.cfg
}

// SelectIntent returns the next intent. It always returns an intent.
func (s *Selector) SelectIntent(healthRatio float64, isFirstTurn bool, lastIntent Kind, consecutiveCount int) Kind {
	if isFirstTurn && s.cfg.FirstTurnIntent != "" {
		return s.cfg.FirstTurnIntent
	}

	active := s.activeWeights(healthRatio)

	if s.cfg.AntiRepetition && s.cfg.MaxConsecutive > 0 && lastIntent != "" && consecutiveCount >= s.cfg.MaxConsecutive {
		filtered := make([]Weight, 0, len(active))
		for _, w := range active {
			if w.Intent != lastIntent {
				filtered = append(filtered, w)
			}
		}
		if totalWeight(filtered) > 0 {
			active = filtered
		} else {
			s.logger.Debug("anti-repetition would empty the intent set",
				zap.String("last_intent", lastIntent.String()),
				zap.Int("consecutive", consecutiveCount),
			)
		}
	}

	return s.weighted(active)
}

// Choose selects the next intent from h and records it.
func (s *Selector) Choose(healthRatio float64, isFirstTurn bool, h *History) Kind {
	next := s.SelectIntent(healthRatio, isFirstTurn, h.Last, h.Consecutive)
	h.Record(next)
	return next
}

func (s *Selector) activeWeights(healthRatio float64) []Weight {
	if s.cfg.UseHealthBehavior {
		for _, hb := range s.cfg.HealthBehaviors {
			if hb.Threshold >= healthRatio {
				return hb.Weights
			}
		}
	}
	return s.cfg.DefaultWeights
}

// weighted draws u in [0, total) and returns the first entry whose running
// sum exceeds u. Zero-weight entries are never chosen. A draw landing exactly
// on a running sum belongs to the next entry, so with weights 0.7 and 0.3 a
// draw of 0.7 selects the second.
func (s *Selector) weighted(weights []Weight) Kind {
	total := totalWeight(weights)
	if total <= 0 || s.src == nil {
		return s.fallback(weights)
	}

	draw := s.src.Float64() * total
	cumulative := 0.0
	var last Kind
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		cumulative += w.Weight
		last = w.Intent
		if draw < cumulative {
			return w.Intent
		}
	}
	// Rounding can leave draw a hair above the final running sum.
	return last
}

func (s *Selector) fallback(weights []Weight) Kind {
	if len(weights) > 0 && weights[0].Intent != "" {
		return weights[0].Intent
	}
	if s.cfg.Fallback != "" {
		return s.cfg.Fallback
	}
	return Attack
}

// History tracks the last declared intent and how many times in a row it
// has been declared.
type History struct {
	Last        Kind
	Consecutive int
}

// Record notes that next was declared.
func (h *History) Record(next Kind) {
	if next == h.Last {
		h.Consecutive++
		return
	}
	h.Last = next
	h.Consecutive = 1
}
