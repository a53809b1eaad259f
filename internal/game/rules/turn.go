package rules

import (
	"fmt"
)

// Phase is the side that is currently acting.
type Phase int

const (
	PhasePlayer Phase = iota
	PhaseEnemy
)

var phaseNames = map[Phase]string{
	PhasePlayer: "PLAYER",
	PhaseEnemy:  "ENEMY",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps of one side's turn.
type Step int

const (
	StepTurnStart Step = iota
	StepAction
	StepTurnEnd
)

var stepNames = map[Step]string{
	StepTurnStart: "TURN_START",
	StepAction:    "ACTION",
	StepTurnEnd:   "TURN_END",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

type turnEntry struct {
	phase Phase
	step  Step
}

// roundSequence is one full round: the player acts, then every enemy.
var roundSequence = []turnEntry{
	{PhasePlayer, StepTurnStart},
	{PhasePlayer, StepAction},
	{PhasePlayer, StepTurnEnd},
	{PhaseEnemy, StepTurnStart},
	{PhaseEnemy, StepAction},
	{PhaseEnemy, StepTurnEnd},
}

// TurnManager tracks round progression for one combat.
type TurnManager struct {
	orderIndex int
	turnNumber int
}

// NewTurnManager creates a turn manager at turn 1, player turn start.
func NewTurnManager() *TurnManager {
	return &TurnManager{turnNumber: 1}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return roundSequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return roundSequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// IsFirstTurn reports whether the combat is still in its opening round.
func (tm *TurnManager) IsFirstTurn() bool {
	return tm.turnNumber == 1
}

// AdvanceStep moves to the next step. Wrapping past the enemy turn end
// starts the next round.
func (tm *TurnManager) AdvanceStep() (Phase, Step) {
	tm.orderIndex++
	if tm.orderIndex >= len(roundSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
	}
	return tm.CurrentPhase(), tm.CurrentStep()
}

// AdvanceTo advances until the given phase and step is current.
func (tm *TurnManager) AdvanceTo(phase Phase, step Step) {
	for i := 0; i < len(roundSequence); i++ {
		if tm.CurrentPhase() == phase && tm.CurrentStep() == step {
			return
		}
		tm.AdvanceStep()
	}
}
