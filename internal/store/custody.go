package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

// custodian is one end of an item move: a container or a character.
type custodian struct {
	containerID *int64
	characterID *int64
}

func inContainer(id int64) custodian { return custodian{containerID: &id} }
func withCharacter(id int64) custodian { return custodian{characterID: &id} }

// TakeItems moves items resting in a container to a character. Either every
// item moves or none does.
func TakeItems(ctx context.Context, db *sql.DB, containerID, characterID int64, itemIDs []int64, by *int64) (*model.Container, error) {
	err := moveItems(ctx, db, inContainer(containerID), withCharacter(characterID), itemIDs, by)
	if err != nil {
		return nil, err
	}
	return GetContainer(ctx, db, containerID)
}

// PutItems moves items a character carries into a container. Either every
// item moves or none does.
func PutItems(ctx context.Context, db *sql.DB, containerID, characterID int64, itemIDs []int64, by *int64) (*model.Container, error) {
	err := moveItems(ctx, db, withCharacter(characterID), inContainer(containerID), itemIDs, by)
	if err != nil {
		return nil, err
	}
	return GetContainer(ctx, db, containerID)
}

// GiveItems hands items from one character to another and returns what the
// recipient now carries.
func GiveItems(ctx context.Context, db *sql.DB, fromCharacterID, toCharacterID int64, itemIDs []int64, by *int64) ([]model.Item, error) {
	err := moveItems(ctx, db, withCharacter(fromCharacterID), withCharacter(toCharacterID), itemIDs, by)
	if err != nil {
		return nil, err
	}
	return ListItemsByCharacter(ctx, db, toCharacterID)
}

func moveItems(ctx context.Context, db *sql.DB, from, to custodian, itemIDs []int64, by *int64) error {
	itemIDs = uniqueIDs(itemIDs)
	if len(itemIDs) == 0 {
		return apperr.New(apperr.CodeNoItems)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range []custodian{from, to} {
		if err := c.require(ctx, tx); err != nil {
			return err
		}
	}

	// Each claim is conditional on the item still being where the caller saw
	// it, so two concurrent moves can never both take the same item.
	var query string
	var code apperr.Code
	var holder int64
	if from.containerID != nil {
		query = `UPDATE items SET container_id = ?, owned_by_id = ?, updated_at = CURRENT_TIMESTAMP
		         WHERE id = ? AND container_id = ? AND owned_by_id IS NULL AND deleted_at IS NULL`
		code = apperr.CodeItemNotInContainer
		holder = *from.containerID
	} else {
		query = `UPDATE items SET container_id = ?, owned_by_id = ?, updated_at = CURRENT_TIMESTAMP
		         WHERE id = ? AND owned_by_id = ? AND container_id IS NULL AND deleted_at IS NULL`
		code = apperr.CodeItemNotOwned
		holder = *from.characterID
	}

	for _, id := range itemIDs {
		result, err := tx.ExecContext(ctx, query, to.containerID, to.characterID, id, holder)
		if err != nil {
			return fmt.Errorf("moving item %d: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking item %d: %w", id, err)
		}
		if n == 0 {
			return apperr.New(code, id)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_movements (item_id, from_container_id, from_character_id, to_container_id, to_character_id, moved_by)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, from.containerID, from.characterID, to.containerID, to.characterID, by,
		); err != nil {
			return fmt.Errorf("recording movement of item %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item move: %w", err)
	}
	return nil
}

func (c custodian) require(ctx context.Context, q querier) error {
	if c.containerID != nil {
		_, err := requireContainer(ctx, q, *c.containerID)
		return err
	}
	_, err := requireCharacter(ctx, q, *c.characterID)
	return err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ItemHistory returns an item's custody log, oldest first.
func ItemHistory(ctx context.Context, db *sql.DB, itemID int64) ([]model.ItemMovement, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, from_container_id, from_character_id, to_container_id, to_character_id, moved_at, moved_by
		 FROM item_movements WHERE item_id = ? ORDER BY id`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item history: %w", err)
	}
	defer rows.Close()

	movements := []model.ItemMovement{}
	for rows.Next() {
		var m model.ItemMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.FromContainerID, &m.FromCharacterID,
			&m.ToContainerID, &m.ToCharacterID, &m.MovedAt, &m.MovedBy); err != nil {
			return nil, fmt.Errorf("scanning item movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
