package model

import "time"

// Container is a location or object that can hold items.
type Container struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Content   string     `json:"content,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	Items []Item `json:"items,omitempty"`
}

// Item is a single tracked object. It sits either in a container or with a
// character, never both.
type Item struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Content     string     `json:"content,omitempty"`
	TypeID      *int64     `json:"type_id,omitempty"`
	ContainerID *int64     `json:"container_id,omitempty"`
	OwnedByID   *int64     `json:"owned_by_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// ItemType groups items for the storytellers.
type ItemType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemMovement records one custody change of an item.
type ItemMovement struct {
	ID              int64     `json:"id"`
	ItemID          int64     `json:"item_id"`
	FromContainerID *int64    `json:"from_container_id,omitempty"`
	FromCharacterID *int64    `json:"from_character_id,omitempty"`
	ToContainerID   *int64    `json:"to_container_id,omitempty"`
	ToCharacterID   *int64    `json:"to_character_id,omitempty"`
	MovedAt         time.Time `json:"moved_at"`
	MovedBy         *int64    `json:"moved_by,omitempty"`
}
