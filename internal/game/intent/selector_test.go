package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/deckforge/combat-core-go/internal/game/rng"
)

func attackDefend() []Weight {
	return []Weight{{Intent: Attack, Weight: 0.7}, {Intent: Defend, Weight: 0.3}}
}

func TestWeightedSelectionSplit(t *testing.T) {
	cases := []struct {
		draw float64
		want Kind
	}{
		{0, Attack},
		{0.35, Attack},
		{0.699, Attack},
		{0.7, Defend},
		{0.85, Defend},
		{0.9999, Defend},
	}
	for _, tc := range cases {
		src := &rng.Fixed{Floats: []float64{tc.draw}}
		s := NewSelector(Config{DefaultWeights: attackDefend()}, src, zaptest.NewLogger(t))
		assert.Equal(t, tc.want, s.SelectIntent(1, false, "", 0), "draw %v", tc.draw)
	}
}

func TestWeightedSelectionUnnormalized(t *testing.T) {
	weights := []Weight{{Intent: Attack, Weight: 7}, {Intent: Defend, Weight: 3}}
	src := &rng.Fixed{Floats: []float64{0.69, 0.71}}
	s := NewSelector(Config{DefaultWeights: weights}, src, nil)

	assert.Equal(t, Attack, s.SelectIntent(1, false, "", 0))
	assert.Equal(t, Defend, s.SelectIntent(1, false, "", 0))
}

func TestZeroWeightNeverChosen(t *testing.T) {
	weights := []Weight{{Intent: Buff, Weight: 0}, {Intent: Defend, Weight: 1}}
	s := NewSelector(Config{DefaultWeights: weights}, &rng.Fixed{Floats: []float64{0}}, nil)
	assert.Equal(t, Defend, s.SelectIntent(1, false, "", 0))
}

func TestHealthBehaviorOverridesDefault(t *testing.T) {
	cfg := Config{
		DefaultWeights:    []Weight{{Intent: Attack, Weight: 1}},
		UseHealthBehavior: true,
		HealthBehaviors: []HealthBehavior{
			{Threshold: 0.3, Weights: []Weight{{Intent: Buff, Weight: 1}}},
			{Threshold: 0.6, Weights: []Weight{{Intent: Defend, Weight: 1}}},
		},
	}
	s := NewSelector(cfg, &rng.Fixed{Floats: []float64{0.5}}, zaptest.NewLogger(t))

	assert.Equal(t, Buff, s.SelectIntent(0.25, false, "", 0))
	assert.Equal(t, Buff, s.SelectIntent(0.3, false, "", 0))
	assert.Equal(t, Defend, s.SelectIntent(0.5, false, "", 0))
	assert.Equal(t, Attack, s.SelectIntent(0.9, false, "", 0))

	cfg.UseHealthBehavior = false
	s = NewSelector(cfg, &rng.Fixed{Floats: []float64{0.5}}, nil)
	assert.Equal(t, Attack, s.SelectIntent(0.25, false, "", 0))
}

func TestAntiRepetitionExcludesLastIntent(t *testing.T) {
	cfg := Config{DefaultWeights: attackDefend(), AntiRepetition: true, MaxConsecutive: 2}
	s := NewSelector(cfg, &rng.Fixed{Floats: []float64{0}}, zaptest.NewLogger(t))

	assert.Equal(t, Defend, s.SelectIntent(1, false, Attack, 2))
	assert.Equal(t, Defend, s.SelectIntent(1, false, Attack, 3))
	assert.Equal(t, Attack, s.SelectIntent(1, false, Attack, 1), "below the limit nothing is excluded")
}

func TestAntiRepetitionKeepsOnlyIntent(t *testing.T) {
	cfg := Config{
		DefaultWeights: []Weight{{Intent: Attack, Weight: 1}},
		AntiRepetition: true,
		MaxConsecutive: 2,
	}
	s := NewSelector(cfg, &rng.Fixed{Floats: []float64{0.4}}, zaptest.NewLogger(t))
	assert.Equal(t, Attack, s.SelectIntent(1, false, Attack, 5))
}

func TestAntiRepetitionDisabled(t *testing.T) {
	cfg := Config{DefaultWeights: attackDefend(), MaxConsecutive: 2}
	s := NewSelector(cfg, &rng.Fixed{Floats: []float64{0}}, nil)
	assert.Equal(t, Attack, s.SelectIntent(1, false, Attack, 4))
}

func TestFirstTurnOverride(t *testing.T) {
	cfg := Config{DefaultWeights: attackDefend(), FirstTurnIntent: Buff}
	src := &rng.Fixed{Floats: []float64{0}}
	s := NewSelector(cfg, src, nil)

	assert.Equal(t, Buff, s.SelectIntent(1, true, "", 0))
	assert.Equal(t, Attack, s.SelectIntent(1, false, Buff, 1))

	s = NewSelector(Config{DefaultWeights: attackDefend()}, &rng.Fixed{Floats: []float64{0.8}}, nil)
	assert.Equal(t, Defend, s.SelectIntent(1, true, "", 0), "no override configured")
}

func TestFallback(t *testing.T) {
	s := NewSelector(Config{}, &rng.Fixed{}, nil)
	assert.Equal(t, Attack, s.SelectIntent(1, false, "", 0))

	s = NewSelector(Config{Fallback: Defend}, &rng.Fixed{}, nil)
	assert.Equal(t, Defend, s.SelectIntent(1, false, "", 0))

	zero := Config{DefaultWeights: []Weight{{Intent: Debuff, Weight: 0}, {Intent: Attack, Weight: 0}}, Fallback: Defend}
	s = NewSelector(zero, &rng.Fixed{}, nil)
	assert.Equal(t, Debuff, s.SelectIntent(1, false, "", 0), "first declared intent wins")
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		DefaultWeights: []Weight{{Intent: Attack, Weight: 3}, {Intent: Defend, Weight: 1}},
		HealthBehaviors: []HealthBehavior{
			{Threshold: 0.5, Weights: []Weight{{Intent: Buff, Weight: 2}, {Intent: Debuff, Weight: -1}}},
			{Threshold: 0.2, Weights: []Weight{{Intent: Defend, Weight: 0}}},
		},
	}
	cfg.Normalize()

	assert.InDelta(t, 0.75, cfg.DefaultWeights[0].Weight, 1e-9)
	assert.InDelta(t, 0.25, cfg.DefaultWeights[1].Weight, 1e-9)
	assert.InDelta(t, 1.0, cfg.HealthBehaviors[0].Weights[0].Weight, 1e-9)
	assert.Zero(t, cfg.HealthBehaviors[0].Weights[1].Weight)
	assert.Zero(t, cfg.HealthBehaviors[1].Weights[0].Weight)
}

func TestIntents(t *testing.T) {
	cfg := Config{
		FirstTurnIntent: Buff,
		DefaultWeights:  attackDefend(),
		HealthBehaviors: []HealthBehavior{{Threshold: 0.3, Weights: []Weight{{Intent: Buff, Weight: 1}, {Intent: Debuff, Weight: 1}}}},
	}
	assert.Equal(t, []Kind{Buff, Attack, Defend, Debuff}, cfg.Intents())
}

func TestHistoryAndChoose(t *testing.T) {
	var h History
	h.Record(Attack)
	h.Record(Attack)
	assert.Equal(t, History{Last: Attack, Consecutive: 2}, h)
	h.Record(Defend)
	assert.Equal(t, History{Last: Defend, Consecutive: 1}, h)

	cfg := Config{DefaultWeights: attackDefend(), AntiRepetition: true, MaxConsecutive: 2}
	s := NewSelector(cfg, &rng.Fixed{Floats: []float64{0}}, nil)
	var hist History
	got := []Kind{
		s.Choose(1, false, &hist),
		s.Choose(1, false, &hist),
		s.Choose(1, false, &hist),
		s.Choose(1, false, &hist),
	}
	assert.Equal(t, []Kind{Attack, Attack, Defend, Attack}, got)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Attack ")
	require.NoError(t, err)
	assert.Equal(t, Attack, k)
	_, err = ParseKind("  ")
	assert.Error(t, err)
}

func TestSeededSelectionIsReproducible(t *testing.T) {
	cfg := Config{DefaultWeights: attackDefend()}
	a := NewSelector(cfg, rng.NewSeeded(42), nil)
	b := NewSelector(cfg, rng.NewSeeded(42), nil)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.SelectIntent(1, false, "", 0), b.SelectIntent(1, false, "", 0))
	}
}
