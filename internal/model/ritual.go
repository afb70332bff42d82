package model

import (
	"fmt"
	"time"
)

// RitualMode is the transition requested at the heart of the city.
type RitualMode string

// Ritual modes.
const (
	ModeAscend  RitualMode = "ascend"
	ModeDescend RitualMode = "descend"
	ModeBless   RitualMode = "bless"
	ModeCurse   RitualMode = "curse"
)

// ParseRitualMode validates a ritual mode string.
func ParseRitualMode(s string) (RitualMode, error) {
	switch m := RitualMode(s); m {
	case ModeAscend, ModeDescend, ModeBless, ModeCurse:
		return m, nil
	default:
		return "", fmt.Errorf("unknown ritual mode %q", s)
	}
}

// Rite is a performed heart-of-the-city ritual.
type Rite struct {
	ID          int64      `json:"id"`
	Mode        RitualMode `json:"mode"`
	CharacterID int64      `json:"character_id"`
	AshesItemID int64      `json:"ashes_item_id"`
	FocusItemID int64      `json:"focus_item_id"`
	Message     string     `json:"message"`
	PerformedAt time.Time  `json:"performed_at"`
}

// Heart is the current content of the two ritual containers.
type Heart struct {
	AshesContainer *Container `json:"ashesContainer"`
	FocusContainer *Container `json:"focusContainer"`
}
