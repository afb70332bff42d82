package model

import "time"

// Character is a player-controlled persona.
type Character struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	UserID    *int64     `json:"user_id,omitempty"`
	Health    int        `json:"health"`
	Blood     int        `json:"blood"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	Traits []Trait `json:"traits,omitempty"`
}

// ControlledBy reports whether the character belongs to the given user.
func (c *Character) ControlledBy(userID int64) bool {
	return c.UserID != nil && *c.UserID == userID
}
