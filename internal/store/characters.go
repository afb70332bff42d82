package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

// CreateCharacter creates a character together with its personal bank account.
func CreateCharacter(ctx context.Context, db *sql.DB, name string, userID *int64) (*model.Character, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO characters (name, user_id) VALUES (?, ?)`,
		name, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating character: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting character id: %w", err)
	}

	if _, err := insertAccount(ctx, tx, id, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing character: %w", err)
	}

	return GetCharacter(ctx, db, id)
}

// GetCharacter returns an active character by ID, with its traits.
func GetCharacter(ctx context.Context, db *sql.DB, id int64) (*model.Character, error) {
	c, err := getCharacter(ctx, db, id)
	if err != nil || c == nil {
		return c, err
	}

	c.Traits, err = ListTraits(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func getCharacter(ctx context.Context, q querier, id int64) (*model.Character, error) {
	c := &model.Character{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, user_id, health, blood, created_at, deleted_at
		 FROM characters WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&c.ID, &c.Name, &c.UserID, &c.Health, &c.Blood, &c.CreatedAt, &c.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	return c, nil
}

// requireCharacter is getCharacter for use inside ledger transactions.
func requireCharacter(ctx context.Context, q querier, id int64) (*model.Character, error) {
	c, err := getCharacter(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.CodeCharacterNotFound)
	}
	return c, nil
}

// ListCharacters returns active characters. A non-nil userID restricts the
// list to the characters that user controls.
func ListCharacters(ctx context.Context, db *sql.DB, userID *int64) ([]model.Character, error) {
	query := `SELECT id, name, user_id, health, blood, created_at, deleted_at
	          FROM characters WHERE deleted_at IS NULL`
	var args []any
	if userID != nil {
		query += ` AND user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	var characters []model.Character
	for rows.Next() {
		var c model.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID, &c.Health, &c.Blood, &c.CreatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

// UpdateCharacter updates a character's name and vitals.
func UpdateCharacter(ctx context.Context, db *sql.DB, id int64, name string, health, blood int) error {
	result, err := db.ExecContext(ctx,
		`UPDATE characters SET name = ?, health = ?, blood = ? WHERE id = ? AND deleted_at IS NULL`,
		name, health, blood, id,
	)
	if err != nil {
		return fmt.Errorf("updating character: %w", err)
	}
	return requireAffected(result, apperr.CodeCharacterNotFound)
}

// AssignCharacter hands a character to a user, or to nobody when userID is nil.
func AssignCharacter(ctx context.Context, db *sql.DB, id int64, userID *int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE characters SET user_id = ? WHERE id = ? AND deleted_at IS NULL`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("assigning character: %w", err)
	}
	return requireAffected(result, apperr.CodeCharacterNotFound)
}

// DeleteCharacter soft-deletes a character.
func DeleteCharacter(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE characters SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	return requireAffected(result, apperr.CodeCharacterNotFound)
}

// ListTraits returns a character's traits grouped by kind.
func ListTraits(ctx context.Context, db *sql.DB, characterID int64) ([]model.Trait, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT kind, name FROM character_traits WHERE character_id = ? ORDER BY kind, name`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing traits: %w", err)
	}
	defer rows.Close()

	traits := []model.Trait{}
	for rows.Next() {
		var tr model.Trait
		if err := rows.Scan(&tr.Kind, &tr.Name); err != nil {
			return nil, fmt.Errorf("scanning trait: %w", err)
		}
		traits = append(traits, tr)
	}
	return traits, rows.Err()
}

// AddTrait attaches a trait to a character. For exclusive kinds (faction,
// clan) the new trait replaces any existing one of the same kind.
func AddTrait(ctx context.Context, db *sql.DB, characterID int64, trait model.Trait) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := requireCharacter(ctx, tx, characterID); err != nil {
		return err
	}

	if trait.Kind.Exclusive() {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM character_traits WHERE character_id = ? AND kind = ?`,
			characterID, trait.Kind,
		)
		if err != nil {
			return fmt.Errorf("clearing %s: %w", trait.Kind, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO character_traits (character_id, kind, name) VALUES (?, ?, ?)`,
		characterID, trait.Kind, trait.Name,
	)
	if err != nil {
		return fmt.Errorf("adding trait: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trait: %w", err)
	}
	return nil
}

// RemoveTrait detaches a trait from a character.
func RemoveTrait(ctx context.Context, db *sql.DB, characterID int64, trait model.Trait) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM character_traits WHERE character_id = ? AND kind = ? AND name = ?`,
		characterID, trait.Kind, trait.Name,
	)
	if err != nil {
		return fmt.Errorf("removing trait: %w", err)
	}
	return nil
}

// requireAffected turns a zero-row update into a NotFound domain error.
func requireAffected(result sql.Result, code apperr.Code) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return apperr.New(code)
	}
	return nil
}
