package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

// RiteEffect applies a ritual's outcome. It runs inside the transaction that
// records the rite; returning an error rolls the rite back.
type RiteEffect func(ctx context.Context, tx *sql.Tx, rite model.Rite) (string, error)

// NoRiteEffect records a rite without touching anything else.
func NoRiteEffect(_ context.Context, _ *sql.Tx, rite model.Rite) (string, error) {
	return fmt.Sprintf("The heart accepts the %s rite", rite.Mode), nil
}

// HeartContainers names the two containers feeding the ritual.
type HeartContainers struct {
	Ashes string
	Focus string
}

// GetHeart returns the ashes and focus containers with their items. A missing
// container is returned as nil.
func GetHeart(ctx context.Context, db *sql.DB, names HeartContainers) (*model.Heart, error) {
	ashes, err := GetContainerByName(ctx, db, names.Ashes)
	if err != nil {
		return nil, err
	}
	focus, err := GetContainerByName(ctx, db, names.Focus)
	if err != nil {
		return nil, err
	}
	return &model.Heart{AshesContainer: ashes, FocusContainer: focus}, nil
}

// PerformRite checks that the submitted ashes and focus items are the first
// items of their containers, runs effect and records the rite, all in one
// transaction.
func PerformRite(ctx context.Context, db *sql.DB, names HeartContainers, rite model.Rite, effect RiteEffect) (*model.Rite, error) {
	if effect == nil {
		effect = NoRiteEffect
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := requireCharacter(ctx, tx, rite.CharacterID); err != nil {
		return nil, err
	}

	tokens := []struct {
		container string
		itemID    int64
	}{
		{names.Ashes, rite.AshesItemID},
		{names.Focus, rite.FocusItemID},
	}
	for _, tok := range tokens {
		c, err := getContainer(ctx, tx, `WHERE name = ? AND deleted_at IS NULL`, tok.container)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperr.New(apperr.CodeContainerNotFound)
		}
		first, err := firstItem(ctx, tx, c.ID)
		if err != nil {
			return nil, err
		}
		if first == nil {
			return nil, apperr.New(apperr.CodeRitualTokenMissing, tok.container)
		}
		if first.ID != tok.itemID {
			return nil, apperr.New(apperr.CodeRitualTokenMismatch, tok.container)
		}
	}

	msg, err := effect(ctx, tx, rite)
	if err != nil {
		return nil, fmt.Errorf("applying %s rite: %w", rite.Mode, err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO rites (mode, character_id, ashes_item_id, focus_item_id, message) VALUES (?, ?, ?, ?, ?)`,
		rite.Mode, rite.CharacterID, rite.AshesItemID, rite.FocusItemID, msg,
	)
	if err != nil {
		return nil, fmt.Errorf("recording rite: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting rite id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing rite: %w", err)
	}

	rites, err := listRites(ctx, db, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rites) == 0 {
		return nil, fmt.Errorf("rite %d not found after commit", id)
	}
	return &rites[0], nil
}

// ListRites returns performed rites, newest first. A characterID of zero
// lists every rite.
func ListRites(ctx context.Context, db *sql.DB, characterID int64) ([]model.Rite, error) {
	if characterID > 0 {
		return listRites(ctx, db, `WHERE character_id = ? ORDER BY id DESC`, characterID)
	}
	return listRites(ctx, db, `ORDER BY id DESC`)
}

func listRites(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.Rite, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, mode, character_id, ashes_item_id, focus_item_id, message, performed_at
		 FROM rites `+where, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rites: %w", err)
	}
	defer rows.Close()

	rites := []model.Rite{}
	for rows.Next() {
		var r model.Rite
		if err := rows.Scan(&r.ID, &r.Mode, &r.CharacterID, &r.AshesItemID, &r.FocusItemID,
			&r.Message, &r.PerformedAt); err != nil {
			return nil, fmt.Errorf("scanning rite: %w", err)
		}
		rites = append(rites, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rites, nil
}
