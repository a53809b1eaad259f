package cards

// Definition is the read-only authored description of a card.
type Definition struct {
	ID      string
	Name    string
	Cost    int
	Exhaust bool
	Effects []Effect

	// Upgrade, when set, replaces cost and effects for upgraded instances.
	Upgrade *Upgrade
}

// Upgrade holds the upgraded form of a card. A nil Cost keeps the base cost;
// empty Effects keep the base effects.
type Upgrade struct {
	Cost    *int
	Effects []Effect
}

// Instance is one physical copy of a card in combat. It references its
// definition and carries only instance-local state.
type Instance struct {
	ID         string
	Definition *Definition
	Upgraded   bool
}

// DefinitionID returns the ID of the instance's definition, or "" if unset.
func (i *Instance) DefinitionID() string {
	if i == nil || i.Definition == nil {
		return ""
	}
	return i.Definition.ID
}

// Cost returns the energy cost, accounting for upgrades.
func (i *Instance) Cost() int {
	def := i.Definition
	if i.Upgraded && def.Upgrade != nil && def.Upgrade.Cost != nil {
		return *def.Upgrade.Cost
	}
	return def.Cost
}

// Effects returns the ordered effect descriptors, accounting for upgrades.
func (i *Instance) Effects() []Effect {
	def := i.Definition
	if i.Upgraded && def.Upgrade != nil && len(def.Upgrade.Effects) > 0 {
		return def.Upgrade.Effects
	}
	return def.Effects
}

// Exhausts reports whether the card leaves play into the exhaust pile.
func (i *Instance) Exhausts() bool {
	return i.Definition != nil && i.Definition.Exhaust
}

// CanUpgrade reports whether the instance has an upgrade left to take.
func (i *Instance) CanUpgrade() bool {
	return !i.Upgraded && i.Definition != nil && i.Definition.Upgrade != nil
}
