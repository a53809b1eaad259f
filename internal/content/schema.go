package content

// The types below mirror the YAML layout of a content pack.

type packFile struct {
	Statuses    []statusYAML    `yaml:"statuses"`
	Cards       []cardYAML      `yaml:"cards"`
	Enemies     []enemyYAML     `yaml:"enemies"`
	StarterDeck []deckEntryYAML `yaml:"starter_deck"`
	Encounters  []encounterYAML `yaml:"encounters"`
}

type statusYAML struct {
	Kind   string `yaml:"kind"`
	Name   string `yaml:"name"`
	Debuff bool   `yaml:"debuff"`
	Decay  string `yaml:"decay"`
	Timing string `yaml:"timing"`
}

type effectYAML struct {
	Type   string `yaml:"type"` // damage | block | draw | heal | apply_status | gain_energy | discard | exhaust
	Amount int    `yaml:"amount"`
	Hits   int    `yaml:"hits"`
	Count  int    `yaml:"count"`
	Status string `yaml:"status"`
	Stacks int    `yaml:"stacks"`
	Target string `yaml:"target"`
}

type upgradeYAML struct {
	Cost    *int         `yaml:"cost"`
	Effects []effectYAML `yaml:"effects"`
}

type cardYAML struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Cost    int          `yaml:"cost"`
	Exhaust bool         `yaml:"exhaust"`
	Effects []effectYAML `yaml:"effects"`
	Upgrade *upgradeYAML `yaml:"upgrade"`
}

type weightYAML struct {
	Intent string  `yaml:"intent"`
	Weight float64 `yaml:"weight"`
}

type healthBehaviorYAML struct {
	Threshold float64      `yaml:"threshold"`
	Weights   []weightYAML `yaml:"weights"`
}

type aiYAML struct {
	DefaultWeights    []weightYAML         `yaml:"default_weights"`
	HealthBehaviors   []healthBehaviorYAML `yaml:"health_behaviors"`
	UseHealthBehavior *bool                `yaml:"use_health_behavior"`
	FirstTurn         string               `yaml:"first_turn"`
	AntiRepetition    bool                 `yaml:"anti_repetition"`
	MaxConsecutive    int                  `yaml:"max_consecutive"`
	Fallback          string               `yaml:"fallback"`
}

type enemyYAML struct {
	ID    string                  `yaml:"id"`
	Name  string                  `yaml:"name"`
	MaxHP int                     `yaml:"max_hp"`
	AI    aiYAML                  `yaml:"ai"`
	Moves map[string][]effectYAML `yaml:"moves"`
}

type deckEntryYAML struct {
	Card  string `yaml:"card"`
	Count int    `yaml:"count"`
}

type encounterYAML struct {
	ID      string   `yaml:"id"`
	Enemies []string `yaml:"enemies"`
}
