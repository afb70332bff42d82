package model

import "fmt"

// TraitKind discriminates the Trait variant.
type TraitKind string

// Trait kinds.
const (
	TraitFaction TraitKind = "faction"
	TraitClan    TraitKind = "clan"
	TraitAbility TraitKind = "ability"
	TraitFeature TraitKind = "feature"
)

// Trait is one of a character's factions, clans, abilities or features.
type Trait struct {
	Kind TraitKind `json:"kind"`
	Name string    `json:"name"`
}

// ParseTraitKind validates a trait kind string.
func ParseTraitKind(s string) (TraitKind, error) {
	switch k := TraitKind(s); k {
	case TraitFaction, TraitClan, TraitAbility, TraitFeature:
		return k, nil
	default:
		return "", fmt.Errorf("unknown trait kind %q", s)
	}
}

// Label returns the sheet heading the trait is listed under.
func (k TraitKind) Label() string {
	switch k {
	case TraitFaction:
		return "Faction"
	case TraitClan:
		return "Clan"
	case TraitAbility:
		return "Ability"
	case TraitFeature:
		return "Feature"
	}
	panic(fmt.Sprintf("unhandled trait kind %q", string(k)))
}

// Exclusive reports whether a character may hold at most one trait of this kind.
func (k TraitKind) Exclusive() bool {
	switch k {
	case TraitFaction, TraitClan:
		return true
	case TraitAbility, TraitFeature:
		return false
	}
	panic(fmt.Sprintf("unhandled trait kind %q", string(k)))
}
