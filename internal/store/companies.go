package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

const companyColumns = `id, name, level, is_active, is_visible, coord_x, coord_y, character_id, created_at`

func scanCompany(row interface{ Scan(...any) error }, c *model.Company) error {
	return row.Scan(&c.ID, &c.Name, &c.Level, &c.IsActive, &c.IsVisible,
		&c.CoordX, &c.CoordY, &c.CharacterID, &c.CreatedAt)
}

// CreateCompany registers a company for a character and opens its first
// bank account.
func CreateCompany(ctx context.Context, db *sql.DB, c model.Company) (*model.Company, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := requireCharacter(ctx, tx, c.CharacterID); err != nil {
		return nil, err
	}

	if c.Level <= 0 {
		c.Level = 1
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO companies (name, level, is_active, is_visible, coord_x, coord_y, character_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Level, c.IsActive, c.IsVisible, c.CoordX, c.CoordY, c.CharacterID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating company: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting company id: %w", err)
	}

	if _, err := insertAccount(ctx, tx, c.CharacterID, &id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing company: %w", err)
	}
	return GetCompany(ctx, db, id)
}

// GetCompany returns a company by ID.
func GetCompany(ctx context.Context, db *sql.DB, id int64) (*model.Company, error) {
	return getCompany(ctx, db, id)
}

func getCompany(ctx context.Context, q querier, id int64) (*model.Company, error) {
	c := &model.Company{}
	err := scanCompany(q.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id,
	), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting company: %w", err)
	}
	return c, nil
}

// ListCompanies returns companies. A characterID of zero lists all of them;
// visibleOnly hides companies storytellers keep off the public map.
func ListCompanies(ctx context.Context, db *sql.DB, characterID int64, visibleOnly bool) ([]model.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE 1=1`
	var args []any

	if characterID > 0 {
		query += ` AND character_id = ?`
		args = append(args, characterID)
	}
	if visibleOnly {
		query += ` AND is_visible = 1`
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	companies := []model.Company{}
	for rows.Next() {
		var c model.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateCompany updates a company's attributes. Ownership does not change.
func UpdateCompany(ctx context.Context, db *sql.DB, c model.Company) error {
	result, err := db.ExecContext(ctx,
		`UPDATE companies SET name = ?, level = ?, is_active = ?, is_visible = ?, coord_x = ?, coord_y = ?
		 WHERE id = ?`,
		c.Name, c.Level, c.IsActive, c.IsVisible, c.CoordX, c.CoordY, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating company: %w", err)
	}
	return requireAffected(result, apperr.CodeCompanyNotFound)
}
