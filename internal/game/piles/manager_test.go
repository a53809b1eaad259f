package piles

import (
	"fmt"
	"testing"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/rng"
	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testDeck(n int) []*cards.Definition {
	defs := make([]*cards.Definition, n)
	for i := range defs {
		defs[i] = &cards.Definition{ID: fmt.Sprintf("card-%d", i), Cost: 1}
	}
	return defs
}

func newTestManager(t *testing.T, seed uint64) (*Manager, *rules.EventBus) {
	t.Helper()
	bus := rules.NewEventBus()
	m := NewManager(Options{
		OwnerID: "player",
		RNG:     rng.NewSeeded(seed),
		Bus:     bus,
		Logger:  zaptest.NewLogger(t),
	})
	return m, bus
}

func assertDeckIntact(t *testing.T, m *Manager, deck []*cards.Instance) {
	t.Helper()
	assert.ElementsMatch(t, deck, m.All(), "piles must hold exactly the deck")
}

func TestDrawDiscardReshuffleScenario(t *testing.T) {
	m, _ := newTestManager(t, 1)
	m.InitializeDeck(testDeck(10))
	deck := m.All()
	require.Len(t, deck, 10)

	drawn := m.Draw(5)
	assert.Len(t, drawn, 5)
	assert.Equal(t, Sizes{Draw: 5, Hand: 5}, m.Sizes())
	assertDeckIntact(t, m, deck)

	m.DiscardHand()
	assert.Equal(t, Sizes{Draw: 5, Discard: 5}, m.Sizes())
	assertDeckIntact(t, m, deck)

	drawn = m.Draw(6)
	assert.Len(t, drawn, 6)
	assert.Equal(t, Sizes{Draw: 4, Hand: 6, Discard: 0}, m.Sizes())
	assertDeckIntact(t, m, deck)
}

func TestDrawNeverExceedsMaxHandSize(t *testing.T) {
	m, _ := newTestManager(t, 2)
	m.InitializeDeck(testDeck(20))

	for i := 0; i < 5; i++ {
		m.Draw(4)
		assert.LessOrEqual(t, m.Sizes().Hand, MaxHandSize)
	}
	assert.Equal(t, MaxHandSize, m.Sizes().Hand)
	assert.Empty(t, m.Draw(1))
}

func TestDrawWithEmptyDrawAndDiscardReturnsFewer(t *testing.T) {
	m, _ := newTestManager(t, 3)
	m.InitializeDeck(testDeck(3))

	drawn := m.Draw(5)
	assert.Len(t, drawn, 3)
	assert.Equal(t, Sizes{Hand: 3}, m.Sizes())
	assert.Empty(t, m.Draw(2))
	assert.Nil(t, m.Draw(0))
}

func TestDrawReshufflesDiscardWhenDrawEmpty(t *testing.T) {
	m, _ := newTestManager(t, 4)
	m.InitializeDeck(testDeck(4))
	hand := m.Draw(4)
	for _, c := range hand {
		m.Discard(c)
	}
	require.Equal(t, Sizes{Discard: 4}, m.Sizes())

	drawn := m.Draw(2)
	assert.Len(t, drawn, 2)
	assert.Equal(t, Sizes{Draw: 2, Hand: 2}, m.Sizes())
}

func TestShuffleIsReproducibleForSameSeed(t *testing.T) {
	order := func() []string {
		m, _ := newTestManager(t, 99)
		m.InitializeDeck(testDeck(15))
		ids := make([]string, 0, 15)
		for _, c := range m.DrawPile() {
			ids = append(ids, c.DefinitionID()+"/"+c.ID)
		}
		return ids
	}
	assert.Equal(t, order(), order())
}

func TestInitializeDeckResetsState(t *testing.T) {
	m, _ := newTestManager(t, 5)
	m.InitializeDeck(testDeck(6))
	hand := m.Draw(3)
	m.Exhaust(hand[0])
	m.Discard(hand[1])

	m.InitializeDeck(testDeck(4))
	assert.Equal(t, Sizes{Draw: 4}, m.Sizes())
	assert.False(t, m.InHand(hand[2]))
}

func TestDiscardAndExhaustIgnoreCardsNotInHand(t *testing.T) {
	m, _ := newTestManager(t, 6)
	m.InitializeDeck(testDeck(5))
	top := m.DrawPile()[4]

	m.Discard(top)
	m.Exhaust(top)
	m.Discard(nil)
	assert.Equal(t, Sizes{Draw: 5}, m.Sizes())

	pile, ok := m.Locate(top)
	require.True(t, ok)
	assert.Equal(t, PileDraw, pile)
}

func TestResolvePlayedRoutesByExhaustFlag(t *testing.T) {
	m, _ := newTestManager(t, 7)
	m.InitializeDeck([]*cards.Definition{
		{ID: "strike"},
		{ID: "offering", Exhaust: true},
	})
	hand := m.Draw(2)
	require.Len(t, hand, 2)

	for _, c := range hand {
		m.ResolvePlayed(c)
	}
	assert.Equal(t, Sizes{Discard: 1, Exhaust: 1}, m.Sizes())
	assert.Equal(t, "offering", m.ExhaustPile()[0].DefinitionID())
	assert.Equal(t, "strike", m.DiscardPile()[0].DefinitionID())

	m.ResolvePlayed(hand[0])
	assert.Equal(t, Sizes{Discard: 1, Exhaust: 1}, m.Sizes())
}

func TestAddToHandRedirectsWhenFull(t *testing.T) {
	m, _ := newTestManager(t, 8)
	m.InitializeDeck(testDeck(MaxHandSize))
	m.Draw(MaxHandSize)

	wound := &cards.Definition{ID: "wound"}
	card := m.AddToHand(wound)
	require.NotNil(t, card)
	pile, ok := m.Locate(card)
	require.True(t, ok)
	assert.Equal(t, PileDiscard, pile)
	assert.Equal(t, MaxHandSize, m.Sizes().Hand)

	m.Discard(m.Hand()[0])
	card = m.AddToHand(wound)
	assert.True(t, m.InHand(card))
	assert.Nil(t, m.AddToHand(nil))
}

func TestAddToDrawPile(t *testing.T) {
	m, _ := newTestManager(t, 9)
	m.InitializeDeck(testDeck(3))

	dazed := &cards.Definition{ID: "dazed"}
	card := m.AddToDrawPile(dazed, false)
	draw := m.DrawPile()
	assert.Same(t, card, draw[len(draw)-1], "unshuffled add goes on top")

	m.AddToDrawPile(dazed, true)
	assert.Equal(t, 5, m.Sizes().Draw)
	assert.Len(t, m.All(), 5)
}

func TestUpgrade(t *testing.T) {
	m, _ := newTestManager(t, 10)
	def := &cards.Definition{ID: "strike", Upgrade: &cards.Upgrade{}}
	m.InitializeDeck([]*cards.Definition{def})
	card := m.DrawPile()[0]

	assert.True(t, m.Upgrade(card))
	assert.True(t, card.Upgraded)
	assert.False(t, m.Upgrade(card))
	assert.False(t, m.Upgrade(&cards.Instance{Definition: def}))
}

func TestInstanceIDsAreDeterministicAndUnique(t *testing.T) {
	m1, _ := newTestManager(t, 11)
	m2, _ := newTestManager(t, 12)
	m1.InitializeDeck(testDeck(8))
	m2.InitializeDeck(testDeck(8))

	ids := func(m *Manager) map[string]bool {
		out := make(map[string]bool)
		for _, c := range m.All() {
			out[c.ID] = true
		}
		return out
	}
	assert.Len(t, ids(m1), 8)
	assert.Equal(t, ids(m1), ids(m2), "ids do not depend on shuffle order")
}

func TestPileNotifications(t *testing.T) {
	m, bus := newTestManager(t, 13)

	var drawnCounts []int
	var discarded []string
	recycled := 0
	bus.SubscribeTyped(rules.EventCardDrawn, func(e rules.Event) { drawnCounts = append(drawnCounts, e.Amount) })
	bus.SubscribeTyped(rules.EventCardDiscarded, func(e rules.Event) { discarded = append(discarded, e.TargetID) })
	bus.SubscribeTyped(rules.EventPileRecycled, func(e rules.Event) { recycled++ })

	m.InitializeDeck(testDeck(4))
	hand := m.Draw(3)
	m.Discard(hand[0])
	m.Draw(3)

	assert.Equal(t, []int{3, 2}, drawnCounts)
	assert.Equal(t, []string{hand[0].ID}, discarded)
	assert.Equal(t, 1, recycled)
}

func TestPileTypeString(t *testing.T) {
	assert.Equal(t, "EXHAUST", PileExhaust.String())
	assert.Equal(t, "PILE_9", PileType(9).String())
}
