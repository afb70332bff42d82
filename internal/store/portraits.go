package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetPortrait stores or replaces a character's portrait.
func SetPortrait(ctx context.Context, db *sql.DB, characterID int64, data []byte, mime string) error {
	if _, err := requireCharacter(ctx, db, characterID); err != nil {
		return err
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO character_portraits (character_id, data, mime) VALUES (?, ?, ?)
		 ON CONFLICT (character_id) DO UPDATE SET data = excluded.data, mime = excluded.mime,
		   updated_at = CURRENT_TIMESTAMP`,
		characterID, data, mime,
	)
	if err != nil {
		return fmt.Errorf("setting portrait: %w", err)
	}
	return nil
}

// GetPortrait returns a character's portrait and its MIME type. Both are
// empty if the character has none.
func GetPortrait(ctx context.Context, db *sql.DB, characterID int64) ([]byte, string, error) {
	var (
		data []byte
		mime string
	)
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM character_portraits WHERE character_id = ?`, characterID,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting portrait: %w", err)
	}
	return data, mime, nil
}
