package combat

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/deckforge/combat-core-go/internal/game/cards"
)

// Fingerprint returns a SHA-256 hex digest of the session's rules state.
// Two sessions built from the same seed, content and inputs produce the same
// fingerprint at every step, which makes it the check for replays.
// Session ids, card instance ids and timestamps are left out.
func (s *Session) Fingerprint() string {
	sum := sha256.Sum256([]byte(s.canonical()))
	return hex.EncodeToString(sum[:])
}

// canonical builds an order-stable text form of the state. Piles keep their
// order since draw order is part of the state.
func (s *Session) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "COMBAT:%d|%s|%s|%s|%d\n",
		s.turns.TurnNumber(),
		s.turns.CurrentPhase(),
		s.turns.CurrentStep(),
		s.outcome,
		s.energy,
	)

	writeCombatant(&buf, "PLAYER", s.player)
	writePile(&buf, "DRAW", s.piles.DrawPile())
	writePile(&buf, "HAND", s.piles.Hand())
	writePile(&buf, "DISCARD", s.piles.DiscardPile())
	writePile(&buf, "EXHAUST", s.piles.ExhaustPile())

	for _, e := range s.enemies {
		writeCombatant(&buf, "ENEMY", e.Combatant)
		fmt.Fprintf(&buf, "INTENT:%s|%s|%d\n", e.intent, e.history.Last, e.history.Consecutive)
	}
	return buf.String()
}

func writeCombatant(buf *bytes.Buffer, label string, c *Combatant) {
	fmt.Fprintf(buf, "%s:%s|%d|%d|%d\n", label, c.ID(), c.HP(), c.MaxHP(), c.Block())
	for _, inst := range c.Statuses().Instances() {
		fmt.Fprintf(buf, "STATUS:%s|%d\n", inst.Kind(), inst.Stacks)
	}
}

func writePile(buf *bytes.Buffer, label string, pile []*cards.Instance) {
	buf.WriteString(label)
	buf.WriteByte(':')
	for i, c := range pile {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(c.DefinitionID())
		if c.Upgraded {
			buf.WriteByte('+')
		}
	}
	buf.WriteByte('\n')
}
