package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

const itemColumns = `id, name, content, type_id, container_id, owned_by_id, created_at, updated_at, deleted_at`

func scanItem(row interface{ Scan(...any) error }, it *model.Item) error {
	var content sql.NullString
	if err := row.Scan(&it.ID, &it.Name, &content, &it.TypeID, &it.ContainerID, &it.OwnedByID,
		&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt); err != nil {
		return err
	}
	it.Content = content.String
	return nil
}

// CreateItem creates an item resting in a container.
func CreateItem(ctx context.Context, db *sql.DB, name, content string, typeID *int64, containerID int64) (*model.Item, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := requireContainer(ctx, tx, containerID); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (name, content, type_id, container_id) VALUES (?, ?, ?, ?)`,
		name, content, typeID, containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}
	return GetItem(ctx, db, id)
}

// GetItem returns an active item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	it := &model.Item{}
	err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	), it)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ListItemsByCharacter returns the items a character is carrying.
func ListItemsByCharacter(ctx context.Context, db *sql.DB, characterID int64) ([]model.Item, error) {
	return listItems(ctx, db, `WHERE owned_by_id = ? AND deleted_at IS NULL ORDER BY id`, characterID)
}

func containerItems(ctx context.Context, q querier, containerID int64) ([]model.Item, error) {
	return listItems(ctx, q, `WHERE container_id = ? AND deleted_at IS NULL ORDER BY id`, containerID)
}

func listItems(ctx context.Context, q querier, where string, args ...any) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+` FROM items `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's description. Custody is changed only through
// TakeItems, PutItems and GiveItems.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, name, content string, typeID *int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, content = ?, type_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, content, typeID, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result, apperr.CodeItemNotFound)
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result, apperr.CodeItemNotFound)
}

// CreateItemType creates an item type.
func CreateItemType(ctx context.Context, db *sql.DB, name string) (*model.ItemType, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO item_types (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return nil, apperr.Wrap(apperr.CodeDuplicate, err, name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating item type: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item type id: %w", err)
	}
	return &model.ItemType{ID: id, Name: name}, nil
}

// ListItemTypes returns all item types.
func ListItemTypes(ctx context.Context, db *sql.DB) ([]model.ItemType, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM item_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing item types: %w", err)
	}
	defer rows.Close()

	types := []model.ItemType{}
	for rows.Next() {
		var t model.ItemType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning item type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
