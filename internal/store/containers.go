package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

// CreateContainer creates a new container.
func CreateContainer(ctx context.Context, db *sql.DB, name, content string) (*model.Container, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO containers (name, content) VALUES (?, ?)`,
		name, content,
	)
	if isUniqueViolation(err) {
		return nil, apperr.Wrap(apperr.CodeDuplicate, err, name)
	}
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting container id: %w", err)
	}

	return GetContainer(ctx, db, id)
}

// GetContainer returns an active container by ID with the items resting in it.
func GetContainer(ctx context.Context, db *sql.DB, id int64) (*model.Container, error) {
	return loadContainer(ctx, db, `WHERE id = ? AND deleted_at IS NULL`, id)
}

// GetContainerByName returns an active container by name with its items.
func GetContainerByName(ctx context.Context, db *sql.DB, name string) (*model.Container, error) {
	return loadContainer(ctx, db, `WHERE name = ? AND deleted_at IS NULL`, name)
}

func loadContainer(ctx context.Context, q querier, where string, args ...any) (*model.Container, error) {
	c, err := getContainer(ctx, q, where, args...)
	if err != nil || c == nil {
		return c, err
	}
	c.Items, err = containerItems(ctx, q, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func getContainer(ctx context.Context, q querier, where string, args ...any) (*model.Container, error) {
	c := &model.Container{}
	var content sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, name, content, created_at, deleted_at FROM containers `+where, args...,
	).Scan(&c.ID, &c.Name, &content, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting container: %w", err)
	}
	c.Content = content.String
	return c, nil
}

func requireContainer(ctx context.Context, q querier, id int64) (*model.Container, error) {
	c, err := getContainer(ctx, q, `WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.CodeContainerNotFound)
	}
	return c, nil
}

// ListContainers returns all active containers without their items.
func ListContainers(ctx context.Context, db *sql.DB) ([]model.Container, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, content, created_at, deleted_at
		 FROM containers WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	defer rows.Close()

	containers := []model.Container{}
	for rows.Next() {
		var c model.Container
		var content sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &content, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		c.Content = content.String
		containers = append(containers, c)
	}
	return containers, rows.Err()
}

// UpdateContainer renames a container and replaces its description.
func UpdateContainer(ctx context.Context, db *sql.DB, id int64, name, content string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE containers SET name = ?, content = ? WHERE id = ? AND deleted_at IS NULL`,
		name, content, id,
	)
	if isUniqueViolation(err) {
		return apperr.Wrap(apperr.CodeDuplicate, err, name)
	}
	if err != nil {
		return fmt.Errorf("updating container: %w", err)
	}
	return requireAffected(result, apperr.CodeContainerNotFound)
}

// DeleteContainer soft-deletes an empty container.
func DeleteContainer(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE containers SET deleted_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL
		   AND NOT EXISTS (SELECT 1 FROM items WHERE container_id = ? AND deleted_at IS NULL)`,
		id, id,
	)
	if err != nil {
		return fmt.Errorf("deleting container: %w", err)
	}
	return requireAffected(result, apperr.CodeContainerNotFound)
}

// firstItem returns the item with the lowest ID resting in a container, or
// nil when the container is empty.
func firstItem(ctx context.Context, q querier, containerID int64) (*model.Item, error) {
	it := &model.Item{}
	err := scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE container_id = ? AND deleted_at IS NULL
		 ORDER BY id LIMIT 1`, containerID,
	), it)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting first item: %w", err)
	}
	return it, nil
}
