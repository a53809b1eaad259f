package piles

import (
	"fmt"

	"github.com/deckforge/combat-core-go/internal/game/cards"
	"github.com/deckforge/combat-core-go/internal/game/rng"
	"github.com/deckforge/combat-core-go/internal/game/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxHandSize is the most cards a hand may hold.
	MaxHandSize = 10
	// DefaultDrawCount is the number of cards drawn at the start of a turn.
	DefaultDrawCount = 5
)

// PileType names one of the four card zones.
type PileType int

const (
	PileDraw PileType = iota
	PileHand
	PileDiscard
	PileExhaust
)

func (p PileType) String() string {
	switch p {
	case PileDraw:
		return "DRAW"
	case PileHand:
		return "HAND"
	case PileDiscard:
		return "DISCARD"
	case PileExhaust:
		return "EXHAUST"
	default:
		return fmt.Sprintf("PILE_%d", int(p))
	}
}

// Sizes is a snapshot of pile sizes.
type Sizes struct {
	Draw    int
	Hand    int
	Discard int
	Exhaust int
}

// Total returns the number of cards across all piles.
func (s Sizes) Total() int {
	return s.Draw + s.Hand + s.Discard + s.Exhaust
}

// Options configures a Manager.
type Options struct {
	// OwnerID identifies the combatant owning the piles in notifications and ids.
	OwnerID string
	// RNG drives every shuffle. Required.
	RNG rng.Source
	// Bus receives pile notifications. Optional.
	Bus *rules.EventBus
	// Logger is optional; a no-op logger is used when nil.
	Logger *zap.Logger
	// Namespace seeds deterministic instance ids. Defaults to uuid.NameSpaceOID.
	Namespace uuid.UUID
}

// Manager owns the draw, hand, discard and exhaust piles of one combatant.
// None of its operations fail on capacity or emptiness; they do as much as
// the rules allow and stop.
type Manager struct {
	ownerID   string
	rng       rng.Source
	bus       *rules.EventBus
	logger    *zap.Logger
	namespace uuid.UUID

	generation int
	seq        int

	// draw is a stack: the last element is the top card.
	draw    []*cards.Instance
	hand    []*cards.Instance
	discard []*cards.Instance
	exhaust []*cards.Instance
}

// NewManager creates an empty pile manager.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := opts.RNG
	if src == nil {
		src = rng.NewSeeded(0)
	}
	ns := opts.Namespace
	if ns == uuid.Nil {
		ns = uuid.NameSpaceOID
	}
	return &Manager{
		ownerID:   opts.OwnerID,
		rng:       src,
		bus:       opts.Bus,
		logger:    logger.With(zap.String("owner_id", opts.OwnerID)),
		namespace: ns,
	}
}

// InitializeDeck clears every pile, places one new instance per definition
// into the draw pile and shuffles it. Nil definitions are skipped.
func (m *Manager) InitializeDeck(defs []*cards.Definition) {
	m.draw = make([]*cards.Instance, 0, len(defs))
	m.hand = make([]*cards.Instance, 0, MaxHandSize)
	m.discard = nil
	m.exhaust = nil
	m.generation++
	m.seq = 0

	for _, def := range defs {
		if def == nil {
			continue
		}
		m.draw = append(m.draw, m.newInstance(def))
	}
	m.ShuffleDraw()

	m.logger.Debug("deck initialized",
		zap.Int("cards", len(m.draw)),
		zap.Int("generation", m.generation),
	)
}

// newInstance creates an instance whose id depends only on the owner, the
// deck generation and the creation order.
func (m *Manager) newInstance(def *cards.Definition) *cards.Instance {
	m.seq++
	seed := fmt.Sprintf("%s|%d|%d|%s", m.ownerID, m.generation, m.seq, def.ID)
	return &cards.Instance{
		ID:         uuid.NewSHA1(m.namespace, []byte(seed)).String(),
		Definition: def,
	}
}

// ShuffleDraw permutes the draw pile in place with Fisher–Yates.
func (m *Manager) ShuffleDraw() {
	rng.Shuffle(m.rng, len(m.draw), func(i, j int) {
		m.draw[i], m.draw[j] = m.draw[j], m.draw[i]
	})
	m.publish(rules.NewEventWithAmount(rules.EventPileShuffled, "", "", m.ownerID, len(m.draw)))
}

// Draw moves up to count cards from the top of the draw pile into the hand.
// An empty draw pile is refilled from the discard pile and shuffled before
// drawing continues. Drawing stops early when the hand is full or both piles
// are empty. The cards actually drawn are returned.
func (m *Manager) Draw(count int) []*cards.Instance {
	if count <= 0 {
		return nil
	}
	drawn := make([]*cards.Instance, 0, count)
	for len(drawn) < count {
		if len(m.hand) >= MaxHandSize {
			break
		}
		if len(m.draw) == 0 {
			if len(m.discard) == 0 {
				break
			}
			m.recycleDiscard()
		}
		top := len(m.draw) - 1
		card := m.draw[top]
		m.draw[top] = nil
		m.draw = m.draw[:top]
		m.hand = append(m.hand, card)
		drawn = append(drawn, card)
	}

	if len(drawn) < count {
		m.logger.Debug("draw stopped early",
			zap.Int("requested", count),
			zap.Int("drawn", len(drawn)),
			zap.Int("hand", len(m.hand)),
		)
	}
	if len(drawn) > 0 {
		m.publish(rules.NewEventWithAmount(rules.EventCardDrawn, "", "", m.ownerID, len(drawn)))
	}
	return drawn
}

// recycleDiscard moves the discard pile into the draw pile and shuffles it.
func (m *Manager) recycleDiscard() {
	moved := len(m.discard)
	m.draw = append(m.draw, m.discard...)
	m.discard = nil
	m.logger.Debug("discard recycled into draw pile", zap.Int("cards", moved))
	m.publish(rules.NewEventWithAmount(rules.EventPileRecycled, "", "", m.ownerID, moved))
	m.ShuffleDraw()
}

// Discard moves card from the hand to the discard pile. Cards not in hand are ignored.
func (m *Manager) Discard(card *cards.Instance) {
	if !m.removeFromHand(card) {
		return
	}
	m.discard = append(m.discard, card)
	m.publishCard(rules.EventCardDiscarded, card)
}

// Exhaust moves card from the hand to the exhaust pile. Cards not in hand are ignored.
func (m *Manager) Exhaust(card *cards.Instance) {
	if !m.removeFromHand(card) {
		return
	}
	m.exhaust = append(m.exhaust, card)
	m.publishCard(rules.EventCardExhausted, card)
}

// DiscardHand moves every card in hand to the discard pile, in hand order.
func (m *Manager) DiscardHand() {
	hand := m.hand
	m.hand = make([]*cards.Instance, 0, MaxHandSize)
	for _, card := range hand {
		m.discard = append(m.discard, card)
		m.publishCard(rules.EventCardDiscarded, card)
	}
}

// ResolvePlayed disposes of a card whose effects have resolved: it leaves the
// hand for the exhaust pile when its definition exhausts, otherwise for the
// discard pile. This is the only disposal path after a play.
func (m *Manager) ResolvePlayed(card *cards.Instance) {
	if card == nil {
		return
	}
	if card.Exhausts() {
		m.Exhaust(card)
		return
	}
	m.Discard(card)
}

// AddToDrawPile creates a new instance of def on top of the draw pile and
// optionally shuffles afterwards.
func (m *Manager) AddToDrawPile(def *cards.Definition, shuffleAfter bool) *cards.Instance {
	if def == nil {
		return nil
	}
	card := m.newInstance(def)
	m.draw = append(m.draw, card)
	m.publishAdded(card, PileDraw)
	if shuffleAfter {
		m.ShuffleDraw()
	}
	return card
}

// AddToHand creates a new instance of def in the hand. A full hand sends the
// card to the discard pile instead.
func (m *Manager) AddToHand(def *cards.Definition) *cards.Instance {
	if def == nil {
		return nil
	}
	card := m.newInstance(def)
	if len(m.hand) >= MaxHandSize {
		m.discard = append(m.discard, card)
		m.publishAdded(card, PileDiscard)
		return card
	}
	m.hand = append(m.hand, card)
	m.publishAdded(card, PileHand)
	return card
}

// Upgrade marks a card as upgraded wherever it is. It reports whether the
// card changed.
func (m *Manager) Upgrade(card *cards.Instance) bool {
	if card == nil || !card.CanUpgrade() {
		return false
	}
	if _, ok := m.Locate(card); !ok {
		return false
	}
	card.Upgraded = true
	return true
}

// Clear empties every pile. Used when a combat is torn down.
func (m *Manager) Clear() {
	m.draw, m.hand, m.discard, m.exhaust = nil, nil, nil, nil
}

// InHand reports whether card is currently in the hand.
func (m *Manager) InHand(card *cards.Instance) bool {
	return indexOf(m.hand, card) >= 0
}

// Locate returns the pile currently holding card.
func (m *Manager) Locate(card *cards.Instance) (PileType, bool) {
	switch {
	case indexOf(m.hand, card) >= 0:
		return PileHand, true
	case indexOf(m.draw, card) >= 0:
		return PileDraw, true
	case indexOf(m.discard, card) >= 0:
		return PileDiscard, true
	case indexOf(m.exhaust, card) >= 0:
		return PileExhaust, true
	}
	return 0, false
}

// Hand returns a copy of the hand in insertion order.
func (m *Manager) Hand() []*cards.Instance { return clonePile(m.hand) }

// DrawPile returns a copy of the draw pile; the last element is the top card.
func (m *Manager) DrawPile() []*cards.Instance { return clonePile(m.draw) }

// DiscardPile returns a copy of the discard pile.
func (m *Manager) DiscardPile() []*cards.Instance { return clonePile(m.discard) }

// ExhaustPile returns a copy of the exhaust pile.
func (m *Manager) ExhaustPile() []*cards.Instance { return clonePile(m.exhaust) }

// Pile returns a copy of the named pile.
func (m *Manager) Pile(p PileType) []*cards.Instance {
	switch p {
	case PileDraw:
		return m.DrawPile()
	case PileHand:
		return m.Hand()
	case PileDiscard:
		return m.DiscardPile()
	case PileExhaust:
		return m.ExhaustPile()
	default:
		return nil
	}
}

// All returns every instance across the four piles.
func (m *Manager) All() []*cards.Instance {
	all := make([]*cards.Instance, 0, len(m.draw)+len(m.hand)+len(m.discard)+len(m.exhaust))
	all = append(all, m.draw...)
	all = append(all, m.hand...)
	all = append(all, m.discard...)
	all = append(all, m.exhaust...)
	return all
}

// Sizes returns the current pile sizes.
func (m *Manager) Sizes() Sizes {
	return Sizes{
		Draw:    len(m.draw),
		Hand:    len(m.hand),
		Discard: len(m.discard),
		Exhaust: len(m.exhaust),
	}
}

func (m *Manager) removeFromHand(card *cards.Instance) bool {
	idx := indexOf(m.hand, card)
	if idx < 0 {
		return false
	}
	m.hand = append(m.hand[:idx], m.hand[idx+1:]...)
	return true
}

func (m *Manager) publish(event rules.Event) {
	m.bus.Publish(event)
}

func (m *Manager) publishCard(eventType rules.EventType, card *cards.Instance) {
	evt := rules.NewEvent(eventType, card.ID, "", m.ownerID)
	evt.Data = card.DefinitionID()
	m.publish(evt)
}

func (m *Manager) publishAdded(card *cards.Instance, pile PileType) {
	evt := rules.NewEvent(rules.EventCardAdded, card.ID, "", m.ownerID)
	evt.Data = card.DefinitionID()
	evt.Metadata["pile"] = pile.String()
	m.publish(evt)
}

func indexOf(pile []*cards.Instance, card *cards.Instance) int {
	if card == nil {
		return -1
	}
	for i, c := range pile {
		if c == card {
			return i
		}
	}
	return -1
}

func clonePile(pile []*cards.Instance) []*cards.Instance {
	out := make([]*cards.Instance, len(pile))
	copy(out, pile)
	return out
}
